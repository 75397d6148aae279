// Command cdromplay drives a cdrom.Controller against a flat .bin disc
// image outside of any full system emulator: it inserts the image, wires
// an OtoAudioSink unless -headless is set, and runs the scheduler loop,
// logging debug snapshots. It writes no command opcode, so the drive stays
// idle and no sector is read or played.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/nullpath/psxcdrom/cdrom"
)

// simpleInterruptLine counts how many times the controller asserted its
// interrupt line, standing in for a real guest CPU's IRQ controller.
type simpleInterruptLine struct {
	count int
}

func (l *simpleInterruptLine) Assert() { l.count++ }

func main() {
	imagePath := flag.String("image", "", "path to a flat .bin disc image")
	ticksPerStep := flag.Int("ticks", 10000, "system clocks advanced per scheduler step")
	steps := flag.Int("steps", 200, "number of scheduler steps to run")
	headless := flag.Bool("headless", false, "skip opening an audio device")
	flag.Parse()

	if *imagePath == "" {
		log.Fatal("cdromplay: -image is required")
	}

	start := time.Now()

	line := &simpleInterruptLine{}
	controller := cdrom.New(line)

	f, err := os.Open(*imagePath)
	if err != nil {
		log.Fatalf("cdromplay: opening image: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Fatalf("cdromplay: stat image: %v", err)
	}
	lbaCount := cdrom.LBA(info.Size() / cdrom.RawSectorSize)

	image, err := cdrom.OpenBinImage(f, *imagePath, []cdrom.TrackInfo{
		{Number: 1, StartLBA: 0, IsAudio: false},
	}, lbaCount)
	if err != nil {
		log.Fatalf("cdromplay: opening bin image: %v", err)
	}
	controller.InsertMedia(image)

	if !*headless {
		sink, err := cdrom.NewOtoAudioSink()
		if err != nil {
			log.Printf("cdromplay: audio device unavailable, running silent: %v", err)
		} else {
			controller.SetAudioSink(sink)
			defer sink.Close()
		}
	}

	controller.Store(0, cdrom.SizeByte, 1) // select index 1
	log.Printf("cdromplay: inserted %q (%d sectors)", *imagePath, lbaCount)

	for i := 0; i < *steps; i++ {
		controller.Execute(*ticksPerStep)
		if i%20 == 0 {
			snap := controller.DebugSnapshot()
			log.Printf("step %d: drive=%v lba=%d response=%d data=%d irqAsserted=%d",
				i, snap.DriveState, snap.CurrentLBA, snap.ResponseCount, snap.DataCount, line.count)
		}
	}

	log.Printf("cdromplay: finished %d steps in %s", *steps, time.Since(start))
}
