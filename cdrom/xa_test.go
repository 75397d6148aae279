package cdrom

import "testing"

func TestDecode4BitStereoSampleCount(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	payload := make([]byte, xaGroupsPerSector*xaGroupSize)
	st := &XADecoderState{}
	samples := st.DecodeSector(payload, CodingInfo(codingStereoBit))
	assert(len(samples) == 4032) // 2016 stereo frames interleaved
}

func TestDecode8BitMonoSampleCount(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	payload := make([]byte, xaGroupsPerSector*xaGroupSize)
	st := &XADecoderState{}
	samples := st.DecodeSector(payload, CodingInfo(codingBitsPerSample))
	assert(len(samples) == 2016)
}

func TestEDCValidationCatchesCorruption(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	data := make([]byte, form1SubheaderLen+form1UserDataLen+form1EDCLen)
	for i := range data[:form1SubheaderLen+form1UserDataLen] {
		data[i] = byte(i)
	}
	crc := Crc32(data[:form1SubheaderLen+form1UserDataLen])
	data[form1SubheaderLen+form1UserDataLen] = byte(crc)
	data[form1SubheaderLen+form1UserDataLen+1] = byte(crc >> 8)
	data[form1SubheaderLen+form1UserDataLen+2] = byte(crc >> 16)
	data[form1SubheaderLen+form1UserDataLen+3] = byte(crc >> 24)

	assert(ValidateMode2Form1EDC(data))

	data[0] ^= 0xff
	assert(!ValidateMode2Form1EDC(data))
}

func TestResamplerProducesSevenPhasesPerSixInputs(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	var r XAResampler
	for i := 0; i < 42; i++ { // 42 = 7 * 6: seven groups of six inputs, 7 frames each
		r.PushStereoSample(100, -100)
	}
	out := r.Drain()
	assert(len(out) == 98) // 49 stereo frames
}
