package cdrom

import "testing"

func TestByteFifoBasic(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	f := NewByteFifo(4)
	assert(f.IsEmpty())
	assert(!f.IsFull())

	f.Push(1)
	f.Push(2)
	f.Push(3)
	assert(f.Len() == 3)
	assert(f.Peek(0) == 1)
	assert(f.Peek(1) == 2)

	v := f.Pop()
	assert(v == 1)
	assert(f.Len() == 2)
}

func TestByteFifoOverflowOverwritesOldest(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	f := NewByteFifo(2)
	f.Push(0xaa)
	f.Push(0xbb)
	assert(f.IsFull())
	f.Push(0xcc) // overwrites 0xaa
	assert(f.Len() == 2)
	assert(f.Pop() == 0xbb)
	assert(f.Pop() == 0xcc)
}

func TestByteFifoRemoveOldest(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	f := NewByteFifo(4)
	f.PushRange([]byte{1, 2, 3})
	f.RemoveOldest()
	assert(f.Len() == 2)
	assert(f.Peek(0) == 2)
}

func TestByteFifoSaveRestore(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	f := NewByteFifo(8)
	f.PushRange([]byte{9, 8, 7})
	saved := f.Bytes()

	g := NewByteFifo(8)
	g.LoadBytes(saved)
	assert(g.Len() == 3)
	assert(g.Pop() == 9)
	assert(g.Pop() == 8)
	assert(g.Pop() == 7)
}
