// Package audio plays the stimulus and shapes it by source distance and direction.
package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"arc-sound.klederson.com/internal/config"
)

// SampleRate is the output rate of the speaker.
const SampleRate = beep.SampleRate(config.SampleRate)

// Output receives the streamer graph and guards mutations while it plays.
type Output interface {
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }

// OpenSpeaker initialises the audio device.
func OpenSpeaker() (Output, error) {
	err := speaker.Init(SampleRate, SampleRate.N(config.SpeakerBufferMs*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return speakerOutput{}, nil
}

// CloseSpeaker releases the audio device.
func CloseSpeaker() {
	speaker.Close()
}

// Tone returns an endless sine stimulus at hz.
func Tone(hz float64) (beep.Streamer, error) {
	s, err := generators.SineTone(SampleRate, hz)
	if err != nil {
		return nil, fmt.Errorf("sine tone %.1f Hz: %w", hz, err)
	}
	return s, nil
}

// LoadWAV decodes a WAV stimulus, loops it forever and resamples it to SampleRate.
// The returned closer releases the file.
func LoadWAV(path string) (beep.Streamer, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open stimulus: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode stimulus %s: %w", path, err)
	}
	var out beep.Streamer = beep.Loop(-1, s)
	if format.SampleRate != SampleRate {
		out = beep.Resample(4, format.SampleRate, SampleRate, out)
	}
	return out, s, nil
}

// Player is a pausable stimulus with distance gain and stereo pan.
// It satisfies the controller's Play/Stop sink.
type Player struct {
	mu     sync.Mutex
	out    Output
	ctrl   *beep.Ctrl
	volume *effects.Volume
	pan    *effects.Pan
	closer io.Closer

	level   float64
	balance float64
	closed  bool
}

// NewPlayer wires src through volume and pan into out, paused.
// closer, if non-nil, is released by Close.
func NewPlayer(src beep.Streamer, out Output, closer io.Closer) *Player {
	vol := &effects.Volume{Streamer: src, Base: 2, Volume: 0, Silent: false}
	pan := &effects.Pan{Streamer: vol, Pan: 0}
	ctrl := &beep.Ctrl{Streamer: pan, Paused: true}

	p := &Player{
		out:    out,
		ctrl:   ctrl,
		volume: vol,
		pan:    pan,
		closer: closer,
		level:  1,
	}
	out.Play(ctrl)
	return p
}

// Play resumes the stimulus.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()
}

// Stop pauses the stimulus.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
}

// Playing reports whether the stimulus is audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.Lock()
	defer p.out.Unlock()
	return !p.closed && !p.ctrl.Paused
}

// SetVolume sets the linear gain in [0, 1]; 0 mutes.
func (p *Player) SetVolume(v float64) {
	v = clamp(v, 0, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = v
	p.out.Lock()
	if v == 0 {
		p.volume.Silent = true
		p.volume.Volume = 0
	} else {
		p.volume.Silent = false
		p.volume.Volume = math.Log2(v)
	}
	p.out.Unlock()
}

// Volume returns the last linear gain set.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// SetPan sets the stereo balance, -1 left to +1 right.
func (p *Player) SetPan(v float64) {
	v = clamp(v, -1, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.balance = v
	p.out.Lock()
	p.pan.Pan = v
	p.out.Unlock()
}

// Pan returns the last balance set.
func (p *Player) Pan() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance
}

// Close pauses playback and releases the stimulus source.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
