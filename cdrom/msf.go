package cdrom

import "fmt"

// FramesPerSecond is the number of CD frames (sectors) in one second of
// audio: the Red Book defines a frame as 1/75s.
const FramesPerSecond = 75

// SecondsPerMinute and the lead-in offset below give the conventional
// sector-0-is-at-MSF-00:02:00 mapping the Red Book standard defines.
const SecondsPerMinute = 60

// LBA is a Logical Block Address: a plain sector index with sector 0 at
// the start of the data area (i.e. already adjusted for the 2-second
// lead-in that MSF addressing carries, see LBA<->MSF conversions below).
type LBA uint32

// LeadInLBA is the LBA-equivalent of the 2-second pre-gap every CD
// address space reserves before its first usable sector.
const LeadInLBA = LBA(2 * FramesPerSecond)

// Msf is a binary (not BCD) Minute/Second/Frame position; BCD only ever
// touches the wire, everything stored internally is plain decoded values
// so normal arithmetic works.
type Msf struct {
	Minute, Second, Frame uint8
}

// String renders an MSF in MM:SS:FF form.
func (m Msf) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", m.Minute, m.Second, m.Frame)
}

// IsEqual reports whether two MSF positions are identical.
func (m Msf) IsEqual(other Msf) bool {
	return m.Minute == other.Minute && m.Second == other.Second && m.Frame == other.Frame
}

// ToLBA converts an MSF position to an LBA, accounting for the 2-second
// lead-in: sector 0 sits at MSF 00:02:00.
func (m Msf) ToLBA() LBA {
	total := LBA(m.Minute)*SecondsPerMinute*FramesPerSecond + LBA(m.Second)*FramesPerSecond + LBA(m.Frame)
	if total < LeadInLBA {
		return 0
	}
	return total - LeadInLBA
}

// MsfFromLBA is the inverse of Msf.ToLBA.
func MsfFromLBA(lba LBA) Msf {
	total := lba + LeadInLBA
	m := total / (SecondsPerMinute * FramesPerSecond)
	rem := total % (SecondsPerMinute * FramesPerSecond)
	s := rem / FramesPerSecond
	f := rem % FramesPerSecond
	return Msf{Minute: uint8(m), Second: uint8(s), Frame: uint8(f)}
}

// BCDToDecimal decodes one binary-coded-decimal byte (each nibble is a
// decimal digit 0-9) into its binary value. Values with an invalid nibble
// (>9) are decoded nibble-wise anyway — the hardware doesn't validate, and
// neither do we here; validation (if any) belongs to the caller.
func BCDToDecimal(v uint8) uint8 {
	return (v>>4)*10 + (v & 0xf)
}

// DecimalToBCD is the inverse of BCDToDecimal.
func DecimalToBCD(v uint8) uint8 {
	return ((v / 10) << 4) | (v % 10)
}

// MsfFromBCD decodes a wire-format (minute, second, frame) BCD triple into
// a binary Msf, the operation behind the Setloc command. All MSF values on
// the wire are BCD; internal arithmetic uses binary after BCDToDecimal.
func MsfFromBCD(m, s, f uint8) Msf {
	return Msf{
		Minute: BCDToDecimal(m),
		Second: BCDToDecimal(s),
		Frame:  BCDToDecimal(f),
	}
}

// BCD returns the wire-format BCD triple for this MSF, the inverse used
// when building command responses (GetlocL/P, GetTD).
func (m Msf) BCD() (minute, second, frame uint8) {
	return DecimalToBCD(m.Minute), DecimalToBCD(m.Second), DecimalToBCD(m.Frame)
}
