package cdrom

import "testing"

func TestDoubleSpeedHalvesReadTicks(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	single := ticksForRead(false)
	double := ticksForRead(true)
	assert(single == double*2)
}

func TestSeekTimeIsDeterministic(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	a := ticksForSeek(0, 1000)
	b := ticksForSeek(0, 1000)
	assert(a == b)
	assert(a == 20000+1000*100)

	// symmetric in direction
	assert(ticksForSeek(1000, 0) == a)
}

type countingLine struct{ n int }

func (l *countingLine) Assert() { l.n++ }

type fakeImage struct {
	sectors map[LBA][]byte
	count   LBA
}

func (f *fakeImage) ReadSector(lba LBA, dst []byte) error {
	s := f.sectors[lba]
	copy(dst, s)
	return nil
}
func (f *fakeImage) TrackCount() int                      { return 1 }
func (f *fakeImage) Track(n uint8) (TrackInfo, bool)      { return TrackInfo{Number: 1}, n == 1 }
func (f *fakeImage) TrackForLBA(lba LBA) TrackInfo        { return TrackInfo{Number: 1} }
func (f *fakeImage) LBACount() LBA                        { return f.count }
func (f *fakeImage) FileName() string                     { return "fake.bin" }

func TestBeginReadingTransitionsDriveState(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	line := &countingLine{}
	c := New(line)
	c.InsertMedia(&fakeImage{sectors: map[LBA][]byte{}, count: 100})

	c.beginReading(false)
	assert(c.driveState == DriveReading)
	assert(c.secondaryStatus.Reading())
	assert(!c.secondaryStatus.Seeking())

	c.stopDrive()
	assert(c.driveState == DriveIdle)
	assert(!c.secondaryStatus.IsActive())
}
