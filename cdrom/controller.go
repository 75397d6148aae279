package cdrom

import (
	"fmt"
	"io"
	"os"
)

// AccessSize records the width of a bus access: the register window only
// ever sees byte accesses from real PS1 software, but the bus may still
// hand this core a half-word or word-sized load/store, so Load and Store
// accept a size; they ignore it and handle every access as a single byte.
type AccessSize int

const (
	SizeByte     AccessSize = 1
	SizeHalfword AccessSize = 2
	SizeWord     AccessSize = 4
)

// CommandState tracks where a multi-stage command sits in its ack/execute
// sequence. A command with a second asynchronous stage doesn't start
// counting down to it the instant the first stage runs: it parks in
// CommandWaitForIRQClear until the host acknowledges the first stage's
// interrupt, and only then starts ticking toward the second response.
type CommandState int

const (
	CommandIdle CommandState = iota
	CommandPendingAck
	CommandWaitForIRQClear
	CommandPendingSecondResponse
)

// Controller is the top-level CD-ROM controller core: the memory-mapped
// register file, the command dispatcher, the drive state machine, the
// sector/XA pipeline, and the interrupt arbiter, wired together into one
// value the host can Load/Store against and Execute on every tick.
type Controller struct {
	index uint8

	params   *ByteFifo
	response *ByteFifo
	data     *ByteFifo

	irq *interruptArbiter
	dma DMAChannel

	image Image
	audio AudioSink

	volume        VolumeMatrix // committed matrix (M), applied to every sample
	volumePending VolumeMatrix // staged matrix (M'), committed on (off=3,idx=3) bit 5

	mode            Mode
	secondaryStatus SecondaryStatus

	commandState   CommandState
	pendingCommand uint8
	commandTicks   int

	driveState    DriveState
	driveTicks    int
	currentLBA    LBA
	seekTarget    LBA
	afterSeekRead bool
	afterSeekCDDA bool

	setlocPosition LBA
	setlocPending  bool

	filterEnabled bool
	filterFile    uint8
	filterChannel uint8

	sectorBuf      [RawSectorSize]byte
	sectorBufValid bool

	lastSectorHeader    SectorHeader
	lastSectorSubheader SectorSubheader

	xaState     *XADecoderState
	xaResampler XAResampler

	muted      bool
	adpcmMuted bool

	logWriter io.Writer
}

// New returns a Controller with all registers at their power-on reset
// values: FIFOs empty, motor off, volume matrix at unity, no media
// inserted and a discard AudioSink/DMAChannel until the caller wires real
// ones in with InsertMedia/SetAudioSink/SetDMAChannel.
func New(line InterruptLine) *Controller {
	c := &Controller{
		params:        NewByteFifo(16),
		response:      NewByteFifo(16),
		data:          NewByteFifo(RawSectorSize - 12),
		dma:           nullDMAChannel{},
		audio:         NullAudioSink{},
		volume:        DefaultVolumeMatrix(),
		volumePending: DefaultVolumeMatrix(),
		xaState:       &XADecoderState{},
		logWriter:     os.Stderr,
	}
	c.irq = newInterruptArbiter(line, c.response)
	return c
}

// SetLogWriter redirects diagnostic output to w; defaults to os.Stderr.
func (c *Controller) SetLogWriter(w io.Writer) { c.logWriter = w }

func (c *Controller) logf(format string, a ...interface{}) {
	fmt.Fprintf(c.logWriter, "cdrom: "+format+"\n", a...)
}

// SetAudioSink installs the boundary collaborator that receives decoded
// CD-DA/XA samples.
func (c *Controller) SetAudioSink(sink AudioSink) {
	if sink == nil {
		sink = NullAudioSink{}
	}
	c.audio = sink
}

// SetDMAChannel installs the boundary collaborator the data FIFO's
// ready-for-DMA line is reported to.
func (c *Controller) SetDMAChannel(ch DMAChannel) {
	if ch == nil {
		ch = nullDMAChannel{}
	}
	c.dma = ch
}

// InsertMedia attaches a disc image and resets the drive to Idle with the
// motor off, cancelling any in-flight seek or read so neither a dangling
// staged interrupt nor a drive countdown survives the swap.
func (c *Controller) InsertMedia(image Image) {
	c.image = image
	c.stopDrive()
	c.secondaryStatus.SetMotorOn(false)
	c.secondaryStatus.SetShellOpen(false)
	c.irq.cancelAsync()
}

// RemoveMedia ejects the inserted disc, matching the original hardware's
// single door-sensor semantics: there is no independent "open the door
// without removing media" operation on real hardware either.
func (c *Controller) RemoveMedia() {
	c.image = nil
	c.stopDrive()
	c.secondaryStatus.SetShellOpen(true)
	c.secondaryStatus.SetMotorOn(false)
	c.irq.cancelAsync()
}

func (s *SecondaryStatus) SetShellOpen(v bool) { s.set(SecondaryShellOpen, v) }

// Execute advances every clocked subsystem (command sequencing, drive
// motion, sector-to-IRQ delivery) by ticks system clocks. The host
// scheduler is expected to call this once per instruction-batch slice.
func (c *Controller) Execute(ticks int) {
	c.tickCommand(ticks)
	c.tickDrive(ticks)
}

// tickCommand only counts down while a command is actively executing
// (PendingAck) or waiting out its second-stage delay (PendingSecondResponse).
// CommandWaitForIRQClear doesn't count down at all: the clock for the
// second stage starts only once onIRQClear sees the host has acknowledged
// the first stage's interrupt.
func (c *Controller) tickCommand(ticks int) {
	if c.commandState != CommandPendingAck && c.commandState != CommandPendingSecondResponse {
		return
	}
	c.commandTicks -= ticks
	for c.commandTicks <= 0 && (c.commandState == CommandPendingAck || c.commandState == CommandPendingSecondResponse) {
		switch c.commandState {
		case CommandPendingAck:
			c.executeCommand(c.pendingCommand)
		case CommandPendingSecondResponse:
			c.executeSecondStage(c.pendingCommand)
		}
	}
}

// onIRQClear is called after every interrupt-flag acknowledgement write. A
// command parked in CommandWaitForIRQClear starts counting down to its
// second stage the moment the flag register reads back clear, using
// whatever tick count was already staged in commandTicks.
func (c *Controller) onIRQClear() {
	if c.commandState == CommandWaitForIRQClear && c.irq.flags == 0 {
		c.commandState = CommandPendingSecondResponse
	}
}

// statusByte recomputes the read-only status byte from current FIFO and
// command-state flags; called after every mutation that could change it.
func (c *Controller) statusByte() Status {
	return composeStatus(
		c.index,
		c.params.IsEmpty(),
		c.params.IsFull(),
		!c.response.IsEmpty(),
		!c.data.IsEmpty(),
		c.commandState != CommandIdle,
	)
}

func (c *Controller) updateDataRequest() {
	c.dma.SetRequest(!c.data.IsEmpty())
}

// pushAsyncResponse stages an asynchronous interrupt+response pair
// (sector-ready, command-complete, or error) for delivery once the flag
// register is clear.
func (c *Controller) pushAsyncResponse(code IRQCode, response []byte) {
	c.irq.scheduleAsync(code, response, c.logf)
}

// sendAsyncErrorResponse stages the secondary-status-with-error-bit plus
// reason-byte pair every media-absent/bad-track path uses.
func (c *Controller) sendAsyncErrorResponse(flag uint8, reason uint8) {
	stat := c.secondaryStatus
	stat.SetError(true)
	c.pushAsyncResponse(IRQError, []byte{uint8(stat), reason})
}

// sendSyncErrorResponse is the first-stage (command write time) counterpart
// of sendAsyncErrorResponse, used when a command can be rejected before
// ever reaching the drive (unknown opcode, wrong parameter count).
func (c *Controller) sendSyncErrorResponse(reason uint8) {
	stat := c.secondaryStatus
	stat.SetError(true)
	c.response.Clear()
	c.response.PushRange([]byte{uint8(stat), reason})
	c.irq.raiseSync(IRQError)
}

// sendSyncErrorResponse2 pushes a literal two-byte error response rather
// than deriving the first byte from secondaryStatus, for the handful of
// commands (GetID with no media) whose error response isn't status-shaped.
func (c *Controller) sendSyncErrorResponse2(b0, b1 uint8) {
	c.response.Clear()
	c.response.PushRange([]byte{b0, b1})
	c.irq.raiseSync(IRQError)
}

// DebugState is a plain-data view of every live register and state
// machine: a CLI or future UI can render this without linking any GUI
// library.
type DebugState struct {
	Status          Status
	SecondaryStatus SecondaryStatus
	Mode            Mode
	DriveState      DriveState
	CurrentLBA      LBA
	ParamCount      int
	ResponseCount   int
	DataCount       int
	InterruptFlags  uint8
	InterruptEnable uint8
}

func (c *Controller) DebugSnapshot() DebugState {
	return DebugState{
		Status:          c.statusByte(),
		SecondaryStatus: c.secondaryStatus,
		Mode:            c.mode,
		DriveState:      c.driveState,
		CurrentLBA:      c.currentLBA,
		ParamCount:      c.params.Len(),
		ResponseCount:   c.response.Len(),
		DataCount:       c.data.Len(),
		InterruptFlags:  c.irq.flagRegister(),
		InterruptEnable: c.irq.enableRegister(),
	}
}
