package cdrom

import (
	"bytes"
	"testing"
)

func buildDataSector(lba LBA) []byte {
	raw := make([]byte, RawSectorSize)
	copy(raw, sectorSyncPattern[:])
	m, s, f := MsfFromLBA(lba).BCD()
	raw[12] = m
	raw[13] = s
	raw[14] = f
	raw[15] = 1 // Mode 1, so it goes straight to the data FIFO
	return raw
}

func TestGetIDWithNoMediaRespondsError(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	c.irq.setEnable(0x1f)

	c.writeCommand(CmdGetID)
	c.Execute(ackDelayForCommand(CmdGetID))
	assert(c.commandState == CommandIdle)
	assert(line.n > 0)
	resp := c.response.Bytes()
	assert(len(resp) == 2)
	assert(resp[0] == 0x11)
	assert(resp[1] == 0x80)
}

func TestSetlocThenSeekL(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	c.InsertMedia(&fakeImage{sectors: map[LBA][]byte{}, count: 1000})

	c.pushParam(0x00)
	c.pushParam(0x04)
	c.pushParam(0x00)
	c.writeCommand(CmdSetloc)
	c.Execute(ackDelayForCommand(CmdSetloc))
	assert(c.commandState == CommandIdle)

	wantLBA := MsfFromBCD(0x00, 0x04, 0x00).ToLBA()
	assert(c.setlocPosition == wantLBA)
	assert(c.setlocPending)

	c.writeCommand(CmdSeekL)
	c.Execute(ackDelayForCommand(CmdSeekL))
	assert(c.driveState == DriveSeeking)

	c.Execute(ticksForSeek(0, wantLBA) + 10)
	assert(c.driveState == DriveIdle)
	assert(c.currentLBA == wantLBA)
}

func TestReadNDeliversDataReadyInterrupt(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	target := MsfFromBCD(0x00, 0x07, 0x05).ToLBA()

	line := &countingLine{}
	c := New(line)
	sectors := map[LBA][]byte{target: buildDataSector(target)}
	c.InsertMedia(&fakeImage{sectors: sectors, count: 10})
	c.irq.setEnable(0x1f)

	c.pushParam(0x00)
	c.pushParam(0x07)
	c.pushParam(0x05)
	c.writeCommand(CmdSetloc)
	c.Execute(ackDelayForCommand(CmdSetloc))

	c.writeCommand(CmdReadN)
	c.Execute(ackDelayForCommand(CmdReadN))
	assert(c.driveState == DriveSeeking)
	c.index = 1
	c.Store(3, SizeByte, 0x1f) // ack the ReadN INT3 so the async INT1 isn't held

	c.Execute(ticksForSeek(0, target) + 10)
	assert(c.driveState == DriveReading)

	c.Execute(ticksForRead(false) + 10)
	assert(c.irq.flags == uint8(IRQDataReady))

	c.index = 0
	c.Store(3, SizeByte, 0x80) // BFRD: load the data FIFO from the sector buffer
	assert(!c.data.IsEmpty())
}

func TestXAFilterDropsNonMatchingSector(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	sink := &recordingSink{}
	c.SetAudioSink(sink)
	c.mode = Mode(ModeXAEnable)
	c.filterEnabled = true
	c.filterFile = 1
	c.filterChannel = 1

	raw := make([]byte, RawSectorSize)
	copy(raw, sectorSyncPattern[:])
	raw[15] = 2 // mode 2
	raw[16] = 9 // file (doesn't match filter)
	raw[17] = 9 // channel
	raw[18] = uint8(SubmodeAudio | SubmodeRealtime)

	before := len(c.xaResampler.pending)
	c.processDataSector(raw)
	assert(len(c.xaResampler.pending) == before)
	assert(len(sink.frames) == 0)
}

func TestSaveLoadStateRoundTrip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	c.InsertMedia(&fakeImage{sectors: map[LBA][]byte{}, count: 500})
	c.mode = Mode(ModeXAEnable | ModeDoubleSpeed)
	c.currentLBA = 42
	c.volume.CDLeftToSPULeft = 90

	var buf bytes.Buffer
	if err := c.SaveState(&buf); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	restored := New(line)
	reopen := func(name string) (Image, error) {
		return &fakeImage{sectors: map[LBA][]byte{}, count: 500}, nil
	}
	if err := restored.LoadState(bytes.NewReader(buf.Bytes()), reopen); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	assert(restored.mode == c.mode)
	assert(restored.currentLBA == c.currentLBA)
	assert(restored.volume.CDLeftToSPULeft == c.volume.CDLeftToSPULeft)
}
