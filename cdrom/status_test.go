package cdrom

import "testing"

func TestComposeStatusFlags(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	s := composeStatus(2, true, false, true, false, true)
	assert(s.Index() == 2)
	assert(s.BUSYSTS())
	assert(!s.DRQSTS())

	s2 := composeStatus(0, false, false, false, true, false)
	assert(s2.DRQSTS())
	assert(!s2.BUSYSTS())
}

func TestSecondaryStatusMutualExclusion(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	var s SecondaryStatus
	s.SetReading(true)
	assert(s.IsActive())
	assert(!s.Seeking())

	s.SetReading(false)
	s.SetSeeking(true)
	assert(s.Seeking())
	assert(!s.Reading())
}

func TestModeBitAccessors(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	m := Mode(ModeXAEnable | ModeDoubleSpeed)
	assert(m.XAEnable())
	assert(m.DoubleSpeed())
	assert(!m.XAFilter())
}
