package pose

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"arc-sound.klederson.com/internal/config"
)

// landmarkCount matches the tracker's full-body landmark set.
const landmarkCount = 33

// MockFeed generates a waving right arm for demo mode. Frames go through the
// same JSON decoding as the websocket feed.
type MockFeed struct {
	program  Sender
	rng      *rand.Rand
	interval time.Duration
	dropRate float64 // Chance of emitting a truncated frame
	cancel   context.CancelFunc
}

// NewMockFeed creates a mock feed emitting every config.MockPoseInterval.
func NewMockFeed() *MockFeed {
	return &MockFeed{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		interval: config.MockPoseInterval,
		dropRate: 0.01,
	}
}

// Start begins emitting frames from a background goroutine. It returns
// immediately, so it is safe to call before the program runs.
func (f *MockFeed) Start(p Sender) error {
	f.program = p

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	go f.loop(ctx)
	return nil
}

func (f *MockFeed) loop(ctx context.Context) {
	f.send(ctx, FeedStateMsg{Connected: true, Source: "demo"})

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t += f.interval.Seconds()
			f.emit(ctx, t)
		}
	}
}

func (f *MockFeed) emit(ctx context.Context, t float64) {
	data := f.Frame(t)
	arm, err := ParseArm(data)
	if err != nil {
		f.send(ctx, FeedErrorMsg{Err: err})
		return
	}
	arm.Received = time.Now()
	f.send(ctx, ArmMsg{Arm: arm})
}

// send drops msg once the feed has been stopped.
func (f *MockFeed) send(ctx context.Context, msg tea.Msg) {
	if ctx.Err() != nil {
		return
	}
	f.program.Send(msg)
}

// Frame renders the wire message for time t. Occasionally it is truncated
// before the wrist so the error path gets exercised too.
func (f *MockFeed) Frame(t float64) []byte {
	kps := make([]map[string]float64, landmarkCount)
	for i := range kps {
		kps[i] = map[string]float64{"x": 0.5, "y": 0.5, "z": 0}
	}

	// Shoulder fixed, upper arm swings slowly, forearm waves faster.
	shoulder := [3]float64{0.35, 0.40, -0.10}
	upper := 0.6 + 0.4*math.Sin(t*0.8)
	fore := upper + 0.5 + 0.6*math.Sin(t*2.3)
	elbow := [3]float64{
		shoulder[0] - 0.18*math.Cos(upper),
		shoulder[1] + 0.18*math.Sin(upper),
		shoulder[2] + 0.03*math.Sin(t),
	}
	wrist := [3]float64{
		elbow[0] - 0.16*math.Cos(fore),
		elbow[1] + 0.16*math.Sin(fore),
		elbow[2] + 0.02*math.Cos(t),
	}
	set := func(i int, p [3]float64) {
		kps[i] = map[string]float64{"x": p[0], "y": p[1], "z": p[2]}
	}
	set(config.ShoulderIndex, shoulder)
	set(config.ElbowIndex, elbow)
	set(config.WristIndex, wrist)

	if f.rng.Float64() < f.dropRate {
		kps = kps[:config.WristIndex]
	}

	data, _ := json.Marshal(kps)
	return data
}

// Stop halts the mock feed without waiting for it. A Send already in flight
// returns once the program exits.
func (f *MockFeed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}
