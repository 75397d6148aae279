//go:build !headless

package cdrom

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoAudioSink is a reference AudioSink that plays decoded CD audio
// through the host's sound device in real time: an io.Reader over a
// growing byte queue feeding an oto.Player, guarded by a mutex since this sink owns
// its buffer directly.
//
// Build-tagged !headless so a headless build of this module never links
// an audio backend.
type OtoAudioSink struct {
	ctx    *oto.Context
	player *oto.Player

	mu  sync.Mutex
	buf []byte // interleaved little-endian s16 stereo, queued until Read drains it
}

// NewOtoAudioSink opens the default audio device at 44100Hz stereo s16,
// matching the CD-ROM's fixed output rate: resampling always targets
// 44100Hz.
func NewOtoAudioSink() (*OtoAudioSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   44100,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoAudioSink{ctx: ctx}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Read implements io.Reader for the oto player: it drains whatever has
// been queued by AddCDAudioSample, padding the remainder of p with
// silence if the decoder hasn't produced enough samples to fill it.
func (s *OtoAudioSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (s *OtoAudioSink) EnsureCDAudioSpace(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cap(s.buf)-len(s.buf) < n*4 {
		grown := make([]byte, len(s.buf), len(s.buf)+n*4)
		copy(grown, s.buf)
		s.buf = grown
	}
}

func (s *OtoAudioSink) AddCDAudioSample(left, right int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf,
		byte(left), byte(left>>8),
		byte(right), byte(right>>8),
	)
}

// Close stops playback. Safe to call once playback is no longer needed.
func (s *OtoAudioSink) Close() error {
	return s.player.Close()
}
