package cdrom

import "testing"

type recordingSink struct {
	frames [][2]int16
}

func (r *recordingSink) EnsureCDAudioSpace(n int) {}
func (r *recordingSink) AddCDAudioSample(left, right int16) {
	r.frames = append(r.frames, [2]int16{left, right})
}

func TestProcessCDDASectorBypassesResampler(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	sink := &recordingSink{}
	c.SetAudioSink(sink)

	raw := make([]byte, RawSectorSize)
	for i := 0; i+3 < len(raw); i += 4 {
		raw[i], raw[i+1] = 0x34, 0x12
		raw[i+2], raw[i+3] = 0x78, 0x56
	}

	c.processCDDASector(raw)

	assert(len(sink.frames) == RawSectorSize/4)
	assert(sink.frames[0][0] == 0x1234)
	assert(sink.frames[0][1] == 0x5678)
}

func TestVolumeWriteStagesUntilCommit(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	before := c.volume.CDLeftToSPULeft

	c.index = 2
	c.Store(2, SizeByte, 0x40) // offset2/idx2: stage CDLeftToSPULeft
	assert(c.volumePending.CDLeftToSPULeft == 0x40)
	assert(c.volume.CDLeftToSPULeft == before)

	c.index = 3
	c.Store(3, SizeByte, 0x20) // offset3/idx3 bit5: commit M' into M
	assert(c.volume.CDLeftToSPULeft == 0x40)
}

func TestVolumeCommitBit0MutesADPCM(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	c.index = 3
	c.Store(3, SizeByte, 0x01)
	assert(c.adpcmMuted)

	c.Store(3, SizeByte, 0x00)
	assert(!c.adpcmMuted)
}

func TestXAEnableOffPassesSectorToHost(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	c.mode = 0 // xa_enable clear

	raw := make([]byte, RawSectorSize)
	copy(raw, sectorSyncPattern[:])
	raw[15] = 2 // mode 2
	raw[18] = uint8(SubmodeAudio | SubmodeRealtime)

	c.processDataSector(raw)

	assert(c.irq.asyncPending || c.irq.flags == uint8(IRQDataReady))
	assert(c.sectorBufValid)
}

func TestBFRDLoadsCorrectByteCountsByMode(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)

	raw := make([]byte, RawSectorSize)
	copy(raw, sectorSyncPattern[:])
	raw[15] = 1 // mode 1
	c.sectorBuf = [RawSectorSize]byte{}
	copy(c.sectorBuf[:], raw)
	c.sectorBufValid = true

	c.mode = 0 // data mode: 2048 bytes
	c.loadRawSectorIntoDataFIFO(c.sectorBuf[:])
	assert(c.data.Len() == 2048)

	c.mode = Mode(ModeReadRawSector) // raw mode: 2340 bytes
	c.sectorBufValid = true
	c.loadRawSectorIntoDataFIFO(c.sectorBuf[:])
	assert(c.data.Len() == 2340)
}
