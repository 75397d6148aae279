package cdrom

// This file implements CD-XA ADPCM decoding and the 7-phase zig-zag
// polyphase resampler that turns the decoder's native 37800Hz (or
// 18900Hz, doubled by sample repetition) output into the fixed 44100Hz
// stream every other module in this core assumes.

// adpcmFilterCoeff is one of the four fixed predictor filters CD-XA ADPCM
// selects per sound unit, expressed in 1/64 units as the hardware does.
type adpcmFilterCoeff struct{ k0, k1 int32 }

var adpcmFilters = [4]adpcmFilterCoeff{
	{0, 0},
	{60, 0},
	{115, -52},
	{98, -55},
}

const (
	xaGroupsPerSector = 18
	xaGroupSize       = 128
	xaUnitsPerGroup   = 4
	xaRowsPerUnit     = 28
)

// xaChannelState carries the two-sample predictor history for one audio
// channel across sound units, sound groups and sectors; it is never reset,
// so history carries over from one decoded sector to the next.
type xaChannelState struct {
	old, older int32
}

func clampS16i32(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// decode applies one ADPCM sample's raw (pre-shift) magnitude against this
// channel's predictor history and filter, returning the reconstructed
// 16-bit sample and advancing history.
func (s *xaChannelState) decode(raw int32, shift uint8, coef adpcmFilterCoeff) int16 {
	diff := raw >> shift
	pred := clampS16i32(diff + (s.old*coef.k0+s.older*coef.k1)/64)
	s.older = s.old
	s.old = pred
	return int16(pred)
}

// XADecoderState holds the per-channel predictor history for an XA-ADPCM
// stream spanning however many sectors the host keeps feeding it through
// DecodeSector. A Controller keeps a single one for its lifetime; it is not
// reset when the filter changes or playback stops.
type XADecoderState struct {
	channels [2]xaChannelState
}

// DecodeSector decodes one Form 2 XA sector's 2304-byte audio payload
// (organized as 18 128-byte sound groups, each 4 interleaved sound units)
// into a slice of int16 samples: interleaved stereo if coding.Stereo(),
// otherwise mono. 4-bit coding yields 4032 mono / 2016 stereo samples per
// sector; 8-bit coding yields 2016 mono / 1008 stereo, both divisible
// evenly across the 18 sound groups.
func (d *XADecoderState) DecodeSector(payload []byte, coding CodingInfo) []int16 {
	stereo := coding.Stereo()
	channelCount := 1
	if stereo {
		channelCount = 2
	}

	var out []int16
	for g := 0; g < xaGroupsPerSector && (g+1)*xaGroupSize <= len(payload); g++ {
		group := payload[g*xaGroupSize : (g+1)*xaGroupSize]
		header := group[:16]
		body := group[16:]

		for unit := 0; unit < xaUnitsPerGroup; unit++ {
			hdr := header[unit]
			filterIdx := (hdr >> 4) & 0x3
			shift := hdr & 0xf
			coef := adpcmFilters[filterIdx]
			ch := &d.channels[unit%channelCount]

			if coding.Is8Bit() {
				for row := 0; row < xaRowsPerUnit; row++ {
					b := int8(body[row*xaUnitsPerGroup+unit])
					out = append(out, ch.decode(int32(b)<<8, shift, coef))
				}
			} else {
				for row := 0; row < xaRowsPerUnit; row++ {
					b := body[row*xaUnitsPerGroup+unit]
					lo := int32(int8(b<<4)>>4) << 12
					hi := int32(int8(b)>>4) << 12
					out = append(out, ch.decode(lo, shift, coef))
					out = append(out, ch.decode(hi, shift, coef))
				}
			}
		}
	}
	return out
}

// zigzagTable is the 7-phase, 29-tap polyphase filter CD-XA resampling
// walks in a "zig-zag" pattern across a 32-sample ring buffer to produce
// seven 44100Hz output frames for every six input samples (a half-rate
// input sample counts twice). These are the fixed hardware coefficients in 1/0x8000 units;
// every value here must match the reference table bit-for-bit.
var zigzagTable = [7][29]int32{
	{0, 0x0, 0x0, 0x0, 0x0, -0x0002, 0x000A, -0x0022, 0x0041, -0x0054,
		0x0034, 0x0009, -0x010A, 0x0400, -0x0A78, 0x234C, 0x6794, -0x1780, 0x0BCD, -0x0623,
		0x0350, -0x016D, 0x006B, 0x000A, -0x0010, 0x0011, -0x0008, 0x0003, -0x0001},
	{0, 0x0, 0x0, -0x0002, 0x0, 0x0003, -0x0013, 0x003C, -0x004B, 0x00A2,
		-0x00E3, 0x0132, -0x0043, -0x0267, 0x0C9D, 0x74BB, -0x11B4, 0x09B8, -0x05BF, 0x0372,
		-0x01A8, 0x00A6, -0x001B, 0x0005, 0x0006, -0x0008, 0x0003, -0x0001, 0x0},
	{0, 0x0, -0x0001, 0x0003, -0x0002, -0x0005, 0x001F, -0x004A, 0x00B3, -0x0192,
		0x02B1, -0x039E, 0x04F8, -0x05A6, 0x7939, -0x05A6, 0x04F8, -0x039E, 0x02B1, -0x0192,
		0x00B3, -0x004A, 0x001F, -0x0005, -0x0002, 0x0003, -0x0001, 0x0, 0x0},
	{0, -0x0001, 0x0003, -0x0008, 0x0006, 0x0005, -0x001B, 0x00A6, -0x01A8, 0x0372,
		-0x05BF, 0x09B8, -0x11B4, 0x74BB, 0x0C9D, -0x0267, -0x0043, 0x0132, -0x00E3, 0x00A2,
		-0x004B, 0x003C, -0x0013, 0x0003, 0x0, -0x0002, 0x0, 0x0, 0x0},
	{-0x0001, 0x0003, -0x0008, 0x0011, -0x0010, 0x000A, 0x006B, -0x016D, 0x0350, -0x0623,
		0x0BCD, -0x1780, 0x6794, 0x234C, -0x0A78, 0x0400, -0x010A, 0x0009, 0x0034, -0x0054,
		0x0041, -0x0022, 0x000A, -0x0001, 0x0, 0x0001, 0x0, 0x0, 0x0},
	{0x0002, -0x0008, 0x0010, -0x0023, 0x002B, 0x001A, -0x00EB, 0x027B, -0x0548, 0x0AFA,
		-0x16FA, 0x53E0, 0x3C07, -0x1249, 0x080E, -0x0347, 0x015B, -0x0044, -0x0017, 0x0046,
		-0x0023, 0x0011, -0x0005, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0},
	{-0x0005, 0x0011, -0x0023, 0x0046, -0x0017, -0x0044, 0x015B, -0x0347, 0x080E, -0x1249,
		0x3C07, 0x53E0, -0x16FA, 0x0AFA, -0x0548, 0x027B, -0x00EB, 0x001A, 0x002B, -0x0023,
		0x0010, -0x0008, 0x0002, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0},
}

// resamplerRing is the 32-sample-per-channel ring buffer the zig-zag
// resampler reads back through, one per audio channel (left/right, or the
// single XA mono channel duplicated to both outputs).
type resamplerRing struct {
	buf [32]int32
	pos int
}

func (r *resamplerRing) push(sample int16) {
	r.buf[r.pos&31] = int32(sample)
	r.pos++
}

// interpolate produces one output sample for the given polyphase phase
// (0-6), walking the ring buffer backward across the 29-tap filter.
func (r *resamplerRing) interpolate(phase int) int16 {
	var sum int32
	for i := 0; i < 29; i++ {
		idx := (r.pos - 1 - i) & 31
		sum += (r.buf[idx] * zigzagTable[phase][i]) / 0x8000
	}
	return int16(clampS16i32(sum))
}

// XAResampler upsamples decoded XA-ADPCM samples (CD-DA bypasses it) from
// their native rate to 44100Hz using a sixstep/zigzag scheme: every sixth input
// sample advances the phase counter through all 7 phases before
// repeating, yielding the 37800->44100 (or 18900->44100 after sample
// doubling) rate conversion.
type XAResampler struct {
	left, right resamplerRing
	sixstep     int
	phase       int
	pending     []int16 // buffered output, drained by Drain
}

// PushStereoSample feeds one native-rate stereo frame and appends any
// 44100Hz output frames it produces to the resampler's internal buffer.
func (r *XAResampler) PushStereoSample(left, right int16) {
	r.left.push(left)
	r.right.push(right)
	r.sixstep++
	if r.sixstep >= 6 {
		r.sixstep -= 6
		for phase := 0; phase < 7; phase++ {
			outL := r.left.interpolate(phase)
			outR := r.right.interpolate(phase)
			r.pending = append(r.pending, outL, outR)
		}
	}
}

// Drain returns and clears every 44100Hz stereo frame produced so far,
// interleaved left/right.
func (r *XAResampler) Drain() []int16 {
	out := r.pending
	r.pending = nil
	return out
}

// sectorSyncPattern is the 12-byte pattern that opens every raw CD sector,
// used to sanity-check a sector read before trusting its header.
var sectorSyncPattern = [12]byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// HasValidSync reports whether raw (a full RawSectorSize-byte sector)
// starts with the standard sync pattern.
func HasValidSync(raw []byte) bool {
	if len(raw) < 12 {
		return false
	}
	for i, b := range sectorSyncPattern {
		if raw[i] != b {
			return false
		}
	}
	return true
}

// form1SubheaderLen, form1UserDataLen and form1EDCLen give the Mode 2 Form 1
// layout measured from the start of the subheader: the checksum covers the
// subheader and user data, and the 4-byte EDC follows them.
const (
	form1SubheaderLen = 8
	form1UserDataLen  = 2048
	form1EDCLen       = 4
)

// ValidateMode2Form1EDC recomputes the Mode 2 Form 1 error-detection code
// over the subheader-through-user-data span and compares it against the
// 4-byte little-endian EDC the sector carries, reporting whether they
// match. The controller's sector read path does not call it.
func ValidateMode2Form1EDC(subheaderAndData []byte) bool {
	covered := form1SubheaderLen + form1UserDataLen
	if len(subheaderAndData) < covered+form1EDCLen {
		return false
	}
	want := Crc32(subheaderAndData[:covered])
	got := uint32(subheaderAndData[covered]) |
		uint32(subheaderAndData[covered+1])<<8 |
		uint32(subheaderAndData[covered+2])<<16 |
		uint32(subheaderAndData[covered+3])<<24
	return want == got
}
