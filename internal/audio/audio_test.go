package audio

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutput struct {
	mu        sync.Mutex
	streamers []beep.Streamer
}

func (o *fakeOutput) Play(s ...beep.Streamer) { o.streamers = append(o.streamers, s...) }
func (o *fakeOutput) Lock()                   { o.mu.Lock() }
func (o *fakeOutput) Unlock()                 { o.mu.Unlock() }

func (o *fakeOutput) pull(t *testing.T, n int) [][2]float64 {
	t.Helper()
	require.Len(t, o.streamers, 1)
	buf := make([][2]float64, n)
	got, ok := o.streamers[0].Stream(buf)
	require.True(t, ok)
	require.Equal(t, n, got)
	return buf
}

func peak(samples [][2]float64, ch int) float64 {
	m := 0.0
	for _, s := range samples {
		m = math.Max(m, math.Abs(s[ch]))
	}
	return m
}

func TestDistanceVolume(t *testing.T) {
	tests := []struct {
		d, falloff, want float64
	}{
		{0, 20, 1},
		{10, 20, 0.5},
		{20, 20, 0},
		{35, 20, 0},
		{-5, 20, 1},
		{5, 0, 0},
		{math.NaN(), 20, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, DistanceVolume(tt.d, tt.falloff), 1e-12, "d=%v falloff=%v", tt.d, tt.falloff)
	}
}

func TestPanForAzimuth(t *testing.T) {
	assert.InDelta(t, 0, PanForAzimuth(0), 1e-12)
	assert.InDelta(t, 1, PanForAzimuth(90), 1e-12)
	assert.InDelta(t, 0, PanForAzimuth(180), 1e-12)
	assert.InDelta(t, -1, PanForAzimuth(270), 1e-12)
}

func TestPlayer_PausedUntilPlay(t *testing.T) {
	src, err := Tone(440)
	require.NoError(t, err)
	out := &fakeOutput{}
	p := NewPlayer(src, out, nil)

	assert.False(t, p.Playing())
	assert.Zero(t, peak(out.pull(t, 512), 0))

	p.Play()
	assert.True(t, p.Playing())
	assert.Greater(t, peak(out.pull(t, 512), 0), 0.5)

	p.Stop()
	assert.False(t, p.Playing())
	assert.Zero(t, peak(out.pull(t, 512), 0))
}

func TestPlayer_VolumeAndPan(t *testing.T) {
	src, err := Tone(440)
	require.NoError(t, err)
	out := &fakeOutput{}
	p := NewPlayer(src, out, nil)
	p.Play()

	full := peak(out.pull(t, 1024), 0)

	p.SetVolume(0.5)
	assert.Equal(t, 0.5, p.Volume())
	assert.InDelta(t, full/2, peak(out.pull(t, 1024), 0), 0.02)

	p.SetVolume(0)
	assert.Zero(t, peak(out.pull(t, 1024), 0))

	p.SetVolume(7)
	assert.Equal(t, 1.0, p.Volume())

	p.SetPan(1)
	assert.Equal(t, 1.0, p.Pan())
	buf := out.pull(t, 1024)
	assert.Zero(t, peak(buf, 0), "full right pan silences the left channel")
	assert.Greater(t, peak(buf, 1), 0.5)

	p.SetPan(-3)
	assert.Equal(t, -1.0, p.Pan())
}

type closeCounter struct{ n int }

func (c *closeCounter) Close() error { c.n++; return nil }

func TestPlayer_Close(t *testing.T) {
	src, err := Tone(220)
	require.NoError(t, err)
	cc := &closeCounter{}
	p := NewPlayer(src, &fakeOutput{}, cc)
	p.Play()

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.Equal(t, 1, cc.n)
	assert.False(t, p.Playing())
	p.Play()
	assert.False(t, p.Playing(), "closed player stays silent")
}

func TestLoadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stimulus.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	rate := beep.SampleRate(22050)
	tone, err := generators.SineTone(rate, 300)
	require.NoError(t, err)
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(rate.N(200*time.Millisecond), tone), format))
	require.NoError(t, f.Close())

	s, closer, err := LoadWAV(path)
	require.NoError(t, err)
	defer closer.Close()

	// Looping: more samples than the file holds still stream.
	want := SampleRate.N(500 * time.Millisecond)
	buf := make([][2]float64, 1024)
	total, loudest := 0, 0.0
	for i := 0; i < 1000 && total < want; i++ {
		n, ok := s.Stream(buf)
		require.True(t, ok)
		loudest = math.Max(loudest, peak(buf[:n], 0))
		total += n
	}
	assert.GreaterOrEqual(t, total, want)
	assert.Greater(t, loudest, 0.3)
}

func TestLoadWAV_Missing(t *testing.T) {
	_, _, err := LoadWAV(filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	n := &Nop{}
	n.Play()
	n.SetVolume(2)
	n.SetPan(-0.5)
	assert.True(t, n.Playing())
	assert.Equal(t, 1.0, n.Volume())
	assert.Equal(t, -0.5, n.Pan())
	n.Stop()
	plays, stops := n.Counts()
	assert.Equal(t, 1, plays)
	assert.Equal(t, 1, stops)
	assert.False(t, n.Playing())
}
