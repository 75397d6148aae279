package cdrom

// AudioSink is the boundary to the host's SPU/mixer: decoded CD-DA and
// XA-ADPCM samples are handed off a pair at a time, after volume matrix
// application, and this core never mixes them with anything else itself.
type AudioSink interface {
	// EnsureCDAudioSpace is advisory: it lets a buffered sink pre-allocate
	// room for n more stereo frames before a burst of AddCDAudioSample
	// calls. Implementations that don't buffer may ignore it.
	EnsureCDAudioSpace(n int)
	// AddCDAudioSample delivers one stereo frame already scaled by the
	// volume matrix.
	AddCDAudioSample(left, right int16)
}

// VolumeMatrix holds the four CD-to-SPU gain registers: explicit fields
// rather than a bitfield, since each is a plain 0-255 gain byte, not a set
// of independent flags.
type VolumeMatrix struct {
	CDLeftToSPULeft   uint8
	CDLeftToSPURight  uint8
	CDRightToSPULeft  uint8
	CDRightToSPURight uint8
}

// Apply scales a decoded stereo sample pair by this gain matrix: each
// output channel sums both input channels through its own gain, in 1/128
// units, with saturation.
func (v VolumeMatrix) Apply(left, right int16) (outLeft, outRight int16) {
	l := (int32(left)*int32(v.CDLeftToSPULeft) + int32(right)*int32(v.CDRightToSPULeft)) / 128
	r := (int32(left)*int32(v.CDLeftToSPURight) + int32(right)*int32(v.CDRightToSPURight)) / 128
	return saturateS16(l), saturateS16(r)
}

func saturateS16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// DefaultVolumeMatrix is the hardware reset value: both channels routed
// straight through at unity gain (128/128).
func DefaultVolumeMatrix() VolumeMatrix {
	return VolumeMatrix{
		CDLeftToSPULeft:   128,
		CDLeftToSPURight:  0,
		CDRightToSPULeft:  0,
		CDRightToSPURight: 128,
	}
}

// NullAudioSink discards every sample; used by default and by headless
// builds/tests so Controller never needs a nil check before writing audio.
type NullAudioSink struct{}

func (NullAudioSink) EnsureCDAudioSpace(n int)          {}
func (NullAudioSink) AddCDAudioSample(left, right int16) {}
