package cdrom

import (
	"encoding/binary"
	"fmt"
	"io"
)

// StateWriter and StateReader are small byte-stream primitives wrapping a
// plain io.Writer/io.Reader: every field is written in a fixed order so
// LoadState can read it back symmetrically.
type StateWriter struct {
	w   io.Writer
	err error
}

func NewStateWriter(w io.Writer) *StateWriter { return &StateWriter{w: w} }

func (s *StateWriter) u8(v uint8) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write([]byte{v})
}

func (s *StateWriter) u32(v uint32) {
	if s.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, s.err = s.w.Write(buf[:])
}

func (s *StateWriter) bytes(v []byte) {
	s.u32(uint32(len(v)))
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write(v)
}

func (s *StateWriter) str(v string) { s.bytes([]byte(v)) }

type StateReader struct {
	r   io.Reader
	err error
}

func NewStateReader(r io.Reader) *StateReader { return &StateReader{r: r} }

func (s *StateReader) u8() uint8 {
	if s.err != nil {
		return 0
	}
	var buf [1]byte
	_, s.err = io.ReadFull(s.r, buf[:])
	return buf[0]
}

func (s *StateReader) u32() uint32 {
	if s.err != nil {
		return 0
	}
	var buf [4]byte
	_, s.err = io.ReadFull(s.r, buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

func (s *StateReader) bytes() []byte {
	n := s.u32()
	if s.err != nil || n == 0 {
		return nil
	}
	buf := make([]byte, n)
	_, s.err = io.ReadFull(s.r, buf)
	return buf
}

func (s *StateReader) str() string { return string(s.bytes()) }

// SaveState serializes every piece of live state a restore needs to
// reproduce this Controller's exact behavior going forward: register
// latches, every FIFO's contents, the interrupt arbiter, drive motion
// state, the last sector header/subheader, the XA decoder's predictor
// history and resampler ring, and the currently inserted media's
// filename+LBA so LoadState can reopen it.
func (c *Controller) SaveState(w io.Writer) error {
	s := NewStateWriter(w)

	s.u8(c.index)
	s.bytes(c.params.Bytes())
	s.bytes(c.response.Bytes())
	s.bytes(c.data.Bytes())

	s.u8(c.irq.flags)
	s.u8(c.irq.enable)
	s.u8(boolByte(c.irq.asyncPending))
	s.u8(uint8(c.irq.asyncCode))
	s.bytes(c.irq.asyncResponse.Bytes())

	s.u8(uint8(c.mode))
	s.u8(uint8(c.secondaryStatus))
	s.u8(c.volume.CDLeftToSPULeft)
	s.u8(c.volume.CDLeftToSPURight)
	s.u8(c.volume.CDRightToSPULeft)
	s.u8(c.volume.CDRightToSPURight)
	s.u8(c.volumePending.CDLeftToSPULeft)
	s.u8(c.volumePending.CDLeftToSPURight)
	s.u8(c.volumePending.CDRightToSPULeft)
	s.u8(c.volumePending.CDRightToSPURight)

	s.u8(uint8(c.commandState))
	s.u8(c.pendingCommand)
	s.u32(uint32(c.commandTicks))

	s.u8(uint8(c.driveState))
	s.u32(uint32(c.driveTicks))
	s.u32(uint32(c.currentLBA))
	s.u32(uint32(c.seekTarget))
	s.u8(boolByte(c.afterSeekRead))
	s.u8(boolByte(c.afterSeekCDDA))
	s.u32(uint32(c.setlocPosition))
	s.u8(boolByte(c.setlocPending))

	s.u8(boolByte(c.filterEnabled))
	s.u8(c.filterFile)
	s.u8(c.filterChannel)
	s.u8(boolByte(c.muted))
	s.u8(boolByte(c.adpcmMuted))

	s.u8(c.lastSectorHeader.Minute)
	s.u8(c.lastSectorHeader.Second)
	s.u8(c.lastSectorHeader.Frame)
	s.u8(c.lastSectorHeader.SectorMode)
	s.u8(c.lastSectorSubheader.File)
	s.u8(c.lastSectorSubheader.Channel)
	s.u8(uint8(c.lastSectorSubheader.Submode))
	s.u8(uint8(c.lastSectorSubheader.Coding))

	for i := range c.xaState.channels {
		s.u32(uint32(c.xaState.channels[i].old))
		s.u32(uint32(c.xaState.channels[i].older))
	}
	for _, ring := range []*resamplerRing{&c.xaResampler.left, &c.xaResampler.right} {
		for _, v := range ring.buf {
			s.u32(uint32(v))
		}
		s.u32(uint32(ring.pos))
	}
	s.u32(uint32(c.xaResampler.sixstep))
	s.u32(uint32(c.xaResampler.phase))

	s.bytes(c.sectorBuf[:])
	s.u8(boolByte(c.sectorBufValid))

	if c.image != nil {
		s.u8(1)
		s.str(c.image.FileName())
		s.u32(uint32(c.currentLBA))
	} else {
		s.u8(0)
	}

	return s.err
}

// LoadState restores a Controller from a stream written by SaveState.
// reopenMedia is called with the filename the controller had inserted at
// save time; a failure to reopen ejects the media (RemoveMedia) rather
// than failing the whole restore.
func (c *Controller) LoadState(r io.Reader, reopenMedia func(filename string) (Image, error)) error {
	s := NewStateReader(r)

	c.index = s.u8()
	c.params.LoadBytes(s.bytes())
	c.response.LoadBytes(s.bytes())
	c.data.LoadBytes(s.bytes())

	c.irq.flags = s.u8()
	c.irq.enable = s.u8()
	c.irq.asyncPending = s.u8() != 0
	c.irq.asyncCode = IRQCode(s.u8())
	c.irq.asyncResponse.Clear()
	c.irq.asyncResponse.LoadBytes(s.bytes())

	c.mode = Mode(s.u8())
	c.secondaryStatus = SecondaryStatus(s.u8())
	c.volume.CDLeftToSPULeft = s.u8()
	c.volume.CDLeftToSPURight = s.u8()
	c.volume.CDRightToSPULeft = s.u8()
	c.volume.CDRightToSPURight = s.u8()
	c.volumePending.CDLeftToSPULeft = s.u8()
	c.volumePending.CDLeftToSPURight = s.u8()
	c.volumePending.CDRightToSPULeft = s.u8()
	c.volumePending.CDRightToSPURight = s.u8()

	c.commandState = CommandState(s.u8())
	c.pendingCommand = s.u8()
	c.commandTicks = int(s.u32())

	c.driveState = DriveState(s.u8())
	c.driveTicks = int(s.u32())
	c.currentLBA = LBA(s.u32())
	c.seekTarget = LBA(s.u32())
	c.afterSeekRead = s.u8() != 0
	c.afterSeekCDDA = s.u8() != 0
	c.setlocPosition = LBA(s.u32())
	c.setlocPending = s.u8() != 0

	c.filterEnabled = s.u8() != 0
	c.filterFile = s.u8()
	c.filterChannel = s.u8()
	c.muted = s.u8() != 0
	c.adpcmMuted = s.u8() != 0

	c.lastSectorHeader.Minute = s.u8()
	c.lastSectorHeader.Second = s.u8()
	c.lastSectorHeader.Frame = s.u8()
	c.lastSectorHeader.SectorMode = s.u8()
	c.lastSectorSubheader.File = s.u8()
	c.lastSectorSubheader.Channel = s.u8()
	c.lastSectorSubheader.Submode = Submode(s.u8())
	c.lastSectorSubheader.Coding = CodingInfo(s.u8())

	for i := range c.xaState.channels {
		c.xaState.channels[i].old = int32(s.u32())
		c.xaState.channels[i].older = int32(s.u32())
	}
	for _, ring := range []*resamplerRing{&c.xaResampler.left, &c.xaResampler.right} {
		for i := range ring.buf {
			ring.buf[i] = int32(s.u32())
		}
		ring.pos = int(s.u32())
	}
	c.xaResampler.sixstep = int(s.u32())
	c.xaResampler.phase = int(s.u32())

	copy(c.sectorBuf[:], s.bytes())
	c.sectorBufValid = s.u8() != 0

	hadMedia := s.u8() != 0
	if hadMedia {
		filename := s.str()
		lba := LBA(s.u32())
		if s.err != nil {
			return s.err
		}
		img, err := reopenMedia(filename)
		if err != nil {
			c.logf("failed to reopen media %q on restore, ejecting: %v", filename, err)
			c.RemoveMedia()
		} else {
			c.image = img
			c.currentLBA = lba
		}
	}

	c.updateDataRequest()

	if s.err != nil {
		return fmt.Errorf("cdrom: load state: %w", s.err)
	}
	return nil
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
