package cdrom

// DriveState is the small state machine governing the physical drive: at
// most one of Seeking/Reading/PlayingCDDA is active at a time, mirrored
// by SecondaryStatus.IsActive's mutual exclusion.
type DriveState int

const (
	DriveIdle DriveState = iota
	DriveSeeking
	DriveReading
	DrivePlayingCDDA
)

const masterClockHz = 33868800

// ticksForRead returns the number of system clocks between sector reads at
// the drive's current speed: masterClockHz/150 at double speed,
// masterClockHz/75 at single speed, so doubling speed exactly halves the
// tick count.
func ticksForRead(doubleSpeed bool) int {
	if doubleSpeed {
		return masterClockHz / 150
	}
	return masterClockHz / 75
}

// ticksForSeek returns the deterministic seek-time formula: 20000 plus
// 100 ticks per sector of travel. No random jitter is added, so seek
// duration is a pure function of distance and reproducible in tests.
func ticksForSeek(from, to LBA) int {
	delta := int64(to) - int64(from)
	if delta < 0 {
		delta = -delta
	}
	return 20000 + int(delta)*100
}

// beginSeeking transitions the drive into Seeking toward target, to be
// followed by read or CDDA playback once the seek completes.
func (c *Controller) beginSeeking(target LBA, thenRead, thenCDDA bool) {
	c.driveState = DriveSeeking
	c.secondaryStatus.SetSeeking(true)
	c.secondaryStatus.SetReading(false)
	c.secondaryStatus.SetPlayingCDDA(false)
	c.seekTarget = target
	c.afterSeekRead = thenRead
	c.afterSeekCDDA = thenCDDA
	c.driveTicks = ticksForSeek(c.currentLBA, target)
}

// beginReading transitions the drive into Reading (cdda=false) or
// PlayingCDDA (cdda=true). If a Setloc position is still pending and
// differs from where the head already sits, this seeks there first and
// resumes reading once the seek completes rather than reading from the old
// position; a pending Setloc that matches the current LBA is treated as
// already-there and cleared without spending any seek time.
func (c *Controller) beginReading(cdda bool) {
	if c.setlocPending {
		target := c.setlocPosition
		c.setlocPending = false
		if target != c.currentLBA {
			c.beginSeeking(target, !cdda, cdda)
			return
		}
	}
	if cdda {
		c.driveState = DrivePlayingCDDA
		c.secondaryStatus.SetPlayingCDDA(true)
	} else {
		c.driveState = DriveReading
		c.secondaryStatus.SetReading(true)
	}
	c.secondaryStatus.SetSeeking(false)
	c.driveTicks = ticksForRead(c.mode.DoubleSpeed())
}

// beginDirectSeek handles SeekL/SeekP: it always performs the seek to
// whatever Setloc last staged (warning if nothing was staged, matching the
// original firmware's tolerance of a seek with no preceding Setloc), and
// unconditionally clears the pending flag.
func (c *Controller) beginDirectSeek(thenRead, thenCDDA bool) {
	if !c.setlocPending {
		c.logf("seek command issued with no pending Setloc, seeking to last-known target")
	}
	target := c.setlocPosition
	c.setlocPending = false
	c.beginSeeking(target, thenRead, thenCDDA)
}

// stopDrive returns the drive to Idle, cancelling any in-flight seek/read,
// used by Pause, Stop, Init and media removal.
func (c *Controller) stopDrive() {
	c.driveState = DriveIdle
	c.secondaryStatus.SetReading(false)
	c.secondaryStatus.SetSeeking(false)
	c.secondaryStatus.SetPlayingCDDA(false)
	c.driveTicks = 0
}

// tickDrive advances the drive state machine by ticks system clocks,
// firing seek-complete or sector-ready transitions as their countdowns
// expire. Called from Controller.Execute every scheduler slice.
func (c *Controller) tickDrive(ticks int) {
	if c.driveState == DriveIdle {
		return
	}
	c.driveTicks -= ticks
	for c.driveTicks <= 0 {
		switch c.driveState {
		case DriveSeeking:
			c.doSeekComplete()
		case DriveReading, DrivePlayingCDDA:
			c.doSectorRead()
		}
		if c.driveState == DriveIdle {
			return
		}
	}
}

// doSeekComplete finishes a seek: the head is now at the target LBA, and
// the drive either starts reading/playing immediately or goes idle.
func (c *Controller) doSeekComplete() {
	c.currentLBA = c.seekTarget
	switch {
	case c.afterSeekRead:
		c.beginReading(false)
	case c.afterSeekCDDA:
		c.beginReading(true)
	default:
		c.stopDrive()
		c.secondaryStatus.SetMotorOn(true)
		c.pushAsyncResponse(IRQComplete, []byte{uint8(c.secondaryStatus)})
	}
}

// doSectorRead reads the sector at the current LBA, hands it to
// processSector for dispatch (data vs CDDA), advances the head, and
// reloads the per-sector tick countdown.
func (c *Controller) doSectorRead() {
	raw := c.sectorBuf[:]
	if c.image == nil {
		c.sendAsyncErrorResponse(SecondaryIDError, 0x04)
		c.stopDrive()
		return
	}
	if err := c.image.ReadSector(c.currentLBA, raw); err != nil {
		c.logf("read error at lba %d: %v", c.currentLBA, err)
		c.sendAsyncErrorResponse(SecondaryError, 0x10)
		c.stopDrive()
		return
	}
	c.processSector(raw)
	c.currentLBA++
	c.driveTicks += ticksForRead(c.mode.DoubleSpeed())
}
