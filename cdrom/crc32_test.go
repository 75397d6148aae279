package cdrom

import "testing"

func TestCrc32TableSize(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}
	assert(len(CRC32Table) == 256)
	assert(CRC32Table[0] == 0)
}

func TestCrc32EmptyIsZero(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}
	assert(Crc32(nil) == 0)
}

func TestCrc32IsDeterministic(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}
	data := []byte("playstation cdrom edc")
	a := Crc32(data)
	b := Crc32(data)
	assert(a == b)
}
