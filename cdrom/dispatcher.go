package cdrom

// Command opcodes, matching the values real PS1 software writes to the
// command register (offset 1, index 0). Only the subset below has a
// handler; anything else falls through to the unknown-opcode error
// response.
const (
	CmdGetstat   = 0x01
	CmdSetloc    = 0x02
	CmdPlay      = 0x03
	CmdReadN     = 0x06
	CmdStop      = 0x08
	CmdPause     = 0x09
	CmdInit      = 0x0a
	CmdMute      = 0x0b
	CmdDemute    = 0x0c
	CmdSetfilter = 0x0d
	CmdSetmode   = 0x0e
	CmdGetlocL   = 0x10
	CmdGetlocP   = 0x11
	CmdGetTN     = 0x13
	CmdGetTD     = 0x14
	CmdSeekL     = 0x15
	CmdSeekP     = 0x16
	CmdTest      = 0x19
	CmdGetID     = 0x1a
	CmdReadS     = 0x1b
)

// ackDelayForCommand returns the number of system clocks between a command
// write and its first-stage ("ack") response: Init takes far longer than
// everything else because it also spins the motor up.
func ackDelayForCommand(cmd uint8) int {
	if cmd == CmdInit {
		return 60000
	}
	return 4000
}

// writeCommand is invoked from Store when the host writes the command
// register. It latches the opcode and schedules the first-stage response;
// executeCommand actually runs once commandTicks reaches zero.
func (c *Controller) writeCommand(cmd uint8) {
	if c.commandState != CommandIdle {
		c.logf("command %#x written while command %#x still in flight, overwriting", cmd, c.pendingCommand)
	}
	c.pendingCommand = cmd
	c.commandState = CommandPendingAck
	c.commandTicks = ackDelayForCommand(cmd)
}

// executeCommand runs a command's first stage: it validates parameters,
// performs any immediate state change, and pushes the first response plus
// an INT3 acknowledgement (or INT5 on error). Commands with a second
// asynchronous stage (GetID, Pause, Init) leave commandState at
// CommandWaitForIRQClear instead of Idle; onIRQClear advances it to
// CommandPendingSecondResponse once the host acks the first stage.
func (c *Controller) executeCommand(cmd uint8) {
	params := c.params.Bytes()
	c.params.Clear()
	c.commandState = CommandIdle

	switch cmd {
	case CmdGetstat:
		c.respondOK()

	case CmdSetloc:
		if len(params) < 3 {
			c.sendSyncErrorResponse(0x20)
			return
		}
		c.setlocPosition = MsfFromBCD(params[0], params[1], params[2]).ToLBA()
		c.setlocPending = true
		c.respondOK()

	case CmdPlay:
		if !c.requireMedia() {
			return
		}
		if len(params) >= 1 && params[0] != 0 {
			if t, ok := c.image.Track(params[0]); ok {
				c.setlocPosition = t.StartLBA
				c.setlocPending = true
			}
		}
		c.respondOK()
		c.beginReading(true)

	case CmdReadN, CmdReadS:
		if !c.requireMedia() {
			return
		}
		c.respondOK()
		c.beginReading(false)

	case CmdSeekL, CmdSeekP:
		if !c.requireMedia() {
			return
		}
		c.respondOK()
		c.beginDirectSeek(false, false)

	case CmdStop, CmdPause:
		wasActive := c.secondaryStatus.IsReadingOrPlaying()
		c.respondOK()
		c.stopDrive()
		c.commandState = CommandWaitForIRQClear
		if wasActive {
			if c.mode.DoubleSpeed() {
				c.commandTicks = 2000000
			} else {
				c.commandTicks = 1000000
			}
		} else {
			c.commandTicks = 7000
		}

	case CmdInit:
		c.stopDrive()
		c.mode = 0
		c.secondaryStatus = 0
		c.secondaryStatus.SetMotorOn(true)
		c.filterEnabled = false
		c.respondOK()
		c.commandState = CommandWaitForIRQClear
		c.commandTicks = 8000

	case CmdMute:
		c.muted = true
		c.respondOK()
	case CmdDemute:
		c.muted = false
		c.respondOK()

	case CmdSetfilter:
		if len(params) < 2 {
			c.sendSyncErrorResponse(0x20)
			return
		}
		c.filterEnabled = true
		c.filterFile = params[0]
		c.filterChannel = params[1]
		c.respondOK()

	case CmdSetmode:
		if len(params) < 1 {
			c.sendSyncErrorResponse(0x20)
			return
		}
		c.mode = Mode(params[0])
		c.respondOK()

	case CmdGetlocL:
		c.respondLocL()

	case CmdGetlocP:
		c.respondLocP()

	case CmdGetTN:
		if !c.requireMedia() {
			return
		}
		c.response.Clear()
		c.response.PushRange([]byte{
			uint8(c.secondaryStatus),
			DecimalToBCD(1),
			DecimalToBCD(uint8(c.image.TrackCount())),
		})
		c.irq.raiseSync(IRQAcknowledge)

	case CmdGetTD:
		if !c.requireMedia() {
			return
		}
		track := uint8(0)
		if len(params) >= 1 {
			track = params[0]
		}
		var msf Msf
		if track == 0 {
			msf = MsfFromLBA(c.image.LBACount())
		} else if t, ok := c.image.Track(track); ok {
			msf = MsfFromLBA(t.StartLBA)
		} else {
			c.sendSyncErrorResponse(0x10)
			return
		}
		m, s, _ := msf.BCD()
		c.response.Clear()
		c.response.PushRange([]byte{uint8(c.secondaryStatus), m, s})
		c.irq.raiseSync(IRQAcknowledge)

	case CmdTest:
		c.executeTest(params)

	case CmdGetID:
		if c.image == nil {
			c.sendSyncErrorResponse2(0x11, 0x80)
			return
		}
		c.respondOK()
		c.commandState = CommandWaitForIRQClear
		c.commandTicks = 18000

	default:
		c.logf("unknown command opcode %#x", cmd)
		c.sendSyncErrorResponse(0x40)
	}
}

// executeSecondStage delivers the asynchronous second response for
// commands that schedule one (GetID, Pause/Stop, Init).
func (c *Controller) executeSecondStage(cmd uint8) {
	c.commandState = CommandIdle
	switch cmd {
	case CmdPause, CmdStop:
		c.secondaryStatus.SetMotorOn(cmd != CmdStop)
		c.pushAsyncResponse(IRQComplete, []byte{uint8(c.secondaryStatus)})

	case CmdInit:
		c.pushAsyncResponse(IRQComplete, []byte{uint8(c.secondaryStatus)})

	case CmdGetID:
		// No-media is rejected at the first stage now, so by the time this
		// runs media is guaranteed present. Region variation is out of this
		// core's scope, so GetID always answers as if a valid disc with no
		// region lockout is present.
		c.pushAsyncResponse(IRQComplete, []byte{0x02, 0x00, 0x20, 0x00, 'S', 'C', 'E', 'A'})

	default:
		panicFmt("cdrom: executeSecondStage called for opcode %#x with no second stage", cmd)
	}
}

// respondOK pushes the single-byte Getstat-shaped acknowledgement response
// most commands use, with INT3.
func (c *Controller) respondOK() {
	c.response.Clear()
	c.response.Push(uint8(c.secondaryStatus))
	c.irq.raiseSync(IRQAcknowledge)
}

// respondLocL reports the last sector's header and subheader exactly as
// read off the disc, not a value derived from currentLBA: the header's
// mode byte and the full CD-XA subheader are only available from the
// sector the drive actually last read.
func (c *Controller) respondLocL() {
	h := c.lastSectorHeader
	sub := c.lastSectorSubheader
	c.response.Clear()
	c.response.PushRange([]byte{
		DecimalToBCD(h.Minute), DecimalToBCD(h.Second), DecimalToBCD(h.Frame), h.SectorMode,
		sub.File, sub.Channel, uint8(sub.Submode), uint8(sub.Coding),
	})
	c.irq.raiseSync(IRQAcknowledge)
}

func (c *Controller) respondLocP() {
	h := c.lastSectorHeader
	m, s, f := DecimalToBCD(h.Minute), DecimalToBCD(h.Second), DecimalToBCD(h.Frame)
	c.response.Clear()
	c.response.PushRange([]byte{1, 1, m, s, f, m, s, f})
	c.irq.raiseSync(IRQAcknowledge)
}

// executeTest dispatches the Test command's subfunction byte: 0x20 reports
// a BIOS date, 0x22 a region string. Only these two read-only subfunctions
// are modeled; anything that would mutate drive hardware state is
// unsupported.
func (c *Controller) executeTest(params []byte) {
	if len(params) < 1 {
		c.sendSyncErrorResponse(0x20)
		return
	}
	c.response.Clear()
	switch params[0] {
	case 0x20:
		c.response.PushRange([]byte{0x94, 0x09, 0x19, 0xC0})
	case 0x22:
		c.response.PushRange([]byte("for U/C"))
	default:
		c.response.Push(uint8(c.secondaryStatus))
	}
	c.irq.raiseSync(IRQAcknowledge)
}

func (c *Controller) requireMedia() bool {
	if c.image == nil {
		c.sendSyncErrorResponse(0x08)
		return false
	}
	return true
}
