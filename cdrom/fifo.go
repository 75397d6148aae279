package cdrom

// ByteFifo is a fixed-capacity byte queue backed by a ring buffer, sized
// to whatever the register file needs: 16 for the parameter and response
// FIFOs, and one raw sector minus its sync area for the data FIFO.
type ByteFifo struct {
	buf   []byte
	head  int // next byte to pop
	count int // number of bytes currently queued
}

// NewByteFifo returns an empty FIFO with room for capacity bytes.
func NewByteFifo(capacity int) *ByteFifo {
	return &ByteFifo{buf: make([]byte, capacity)}
}

// IsEmpty returns true if the FIFO holds no bytes.
func (f *ByteFifo) IsEmpty() bool {
	return f.count == 0
}

// IsFull returns true if the FIFO is at capacity.
func (f *ByteFifo) IsFull() bool {
	return f.count == len(f.buf)
}

// Len returns the number of bytes currently queued.
func (f *ByteFifo) Len() int {
	return f.count
}

// Cap returns the FIFO's capacity.
func (f *ByteFifo) Cap() int {
	return len(f.buf)
}

// Clear empties the FIFO without touching its capacity.
func (f *ByteFifo) Clear() {
	f.head = 0
	f.count = 0
}

// Push appends a byte. The caller must check IsFull first; pushing to a
// full FIFO overwrites the oldest unread byte (the hardware's parameter
// FIFO overflow behavior — see Controller.pushParam).
func (f *ByteFifo) Push(v byte) {
	tail := (f.head + f.count) % len(f.buf)
	f.buf[tail] = v
	if f.count < len(f.buf) {
		f.count++
	} else {
		// overwritten the oldest byte; advance head to match
		f.head = (f.head + 1) % len(f.buf)
	}
}

// PushRange appends every byte of data, in order.
func (f *ByteFifo) PushRange(data []byte) {
	for _, b := range data {
		f.Push(b)
	}
}

// Pop removes and returns the oldest byte. Popping an empty FIFO returns 0;
// callers that care about the empty case (register reads) check IsEmpty
// first and substitute the hardware's 0xFF sentinel themselves.
func (f *ByteFifo) Pop() byte {
	if f.count == 0 {
		return 0
	}
	v := f.buf[f.head]
	f.head = (f.head + 1) % len(f.buf)
	f.count--
	return v
}

// PopRange pops up to len(dst) bytes into dst and returns how many bytes
// were actually available.
func (f *ByteFifo) PopRange(dst []byte) int {
	n := 0
	for n < len(dst) && f.count > 0 {
		dst[n] = f.Pop()
		n++
	}
	return n
}

// Peek returns the byte at the given offset from the front without
// removing it. Command execution does not use it; it takes a copy of the
// parameters with Bytes and then clears the FIFO.
func (f *ByteFifo) Peek(offset int) byte {
	if offset >= f.count {
		return 0
	}
	return f.buf[(f.head+offset)%len(f.buf)]
}

// RemoveOldest discards the single oldest queued byte, used by the
// parameter-FIFO overflow path (§4.1: "discards the oldest byte").
func (f *ByteFifo) RemoveOldest() {
	if f.count == 0 {
		return
	}
	f.head = (f.head + 1) % len(f.buf)
	f.count--
}

// Bytes returns a copy of the queued bytes in FIFO order, oldest first.
// Used by save-state serialization.
func (f *ByteFifo) Bytes() []byte {
	out := make([]byte, f.count)
	for i := 0; i < f.count; i++ {
		out[i] = f.buf[(f.head+i)%len(f.buf)]
	}
	return out
}

// LoadBytes resets the FIFO and refills it with data, used by save-state
// restore. len(data) must not exceed the FIFO's capacity.
func (f *ByteFifo) LoadBytes(data []byte) {
	f.Clear()
	f.PushRange(data)
}
