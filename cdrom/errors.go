package cdrom

import "fmt"

// panicFmt is reserved for conditions that indicate this core's own
// internal invariants have been violated (a second stage run for an opcode
// that has none, an out-of-range register offset) rather than for host
// protocol misuse, which is logged and tolerated instead of fatal.
func panicFmt(format string, a ...interface{}) {
	panic(fmt.Sprintf(format, a...))
}
