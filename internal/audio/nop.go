package audio

import "sync"

// Nop is a silent sink that records what it was asked to do.
type Nop struct {
	mu      sync.Mutex
	plays   int
	stops   int
	playing bool
	volume  float64
	pan     float64
}

func (n *Nop) Play() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.plays++
	n.playing = true
}

func (n *Nop) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stops++
	n.playing = false
}

func (n *Nop) SetVolume(v float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.volume = clamp(v, 0, 1)
}

func (n *Nop) SetPan(v float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pan = clamp(v, -1, 1)
}

func (n *Nop) Playing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.playing
}

func (n *Nop) Volume() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.volume
}

func (n *Nop) Pan() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pan
}

func (n *Nop) Close() error { return nil }

// Counts returns how many times Play and Stop were called.
func (n *Nop) Counts() (plays, stops int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.plays, n.stops
}

// Sink is the full control surface the app drives every frame.
type Sink interface {
	Play()
	Stop()
	SetVolume(v float64)
	SetPan(v float64)
	Playing() bool
	Volume() float64
	Pan() float64
	Close() error
}

var (
	_ Sink = (*Player)(nil)
	_ Sink = (*Nop)(nil)
)
