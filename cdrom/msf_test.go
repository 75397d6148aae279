package cdrom

import "testing"

func TestBCDRoundTrip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	for v := uint8(0); v <= 99; v++ {
		bcd := DecimalToBCD(v)
		assert(BCDToDecimal(bcd) == v)
	}
}

func TestMsfLBARoundTrip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	for _, lba := range []LBA{0, 1, 74, 75, 4500, 333000} {
		msf := MsfFromLBA(lba)
		assert(msf.ToLBA() == lba)
	}
}

func TestMsfFromBCDMatchesLeadIn(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	// 00:02:00 is the start of the data area, LBA 0.
	msf := MsfFromBCD(0x00, 0x02, 0x00)
	assert(msf.ToLBA() == 0)
}
