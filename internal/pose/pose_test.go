package pose

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// frame builds a tracker message with n landmarks; landmark i sits at (i, 2i, 3i).
func frame(n int) []byte {
	kps := make([]map[string]float64, n)
	for i := range kps {
		f := float64(i)
		kps[i] = map[string]float64{"x": f, "y": 2 * f, "z": 3 * f, "visibility": 0.9}
	}
	data, _ := json.Marshal(kps)
	return data
}

func TestParseArm(t *testing.T) {
	arm, err := ParseArm(frame(33))
	require.NoError(t, err)

	assert.Equal(t, r3.Vec{X: 12, Y: 24, Z: 36}, arm.Shoulder)
	assert.Equal(t, r3.Vec{X: 14, Y: 28, Z: 42}, arm.Elbow)
	assert.Equal(t, r3.Vec{X: 16, Y: 32, Z: 48}, arm.Wrist)
}

func TestParseArm_MinimumLength(t *testing.T) {
	_, err := ParseArm(frame(17))
	assert.NoError(t, err)
}

func TestParseArm_Failures(t *testing.T) {
	missingZ := func() []byte {
		kps := make([]map[string]float64, 17)
		for i := range kps {
			kps[i] = map[string]float64{"x": 1, "y": 1, "z": 1}
		}
		delete(kps[14], "z")
		data, _ := json.Marshal(kps)
		return data
	}()

	tests := []struct {
		name  string
		data  []byte
		cause error
		index int
	}{
		{"not json", []byte("hello"), nil, -1},
		{"object not array", []byte(`{"x":1}`), nil, -1},
		{"string coordinate", []byte(`[{"x":"a","y":1,"z":1}]`), nil, -1},
		{"null", []byte("null"), ErrEmptyFrame, -1},
		{"empty", []byte("[]"), ErrEmptyFrame, -1},
		{"short before shoulder", frame(12), ErrShortFrame, 12},
		{"short before wrist", frame(16), ErrShortFrame, 16},
		{"missing coordinate", missingZ, ErrMissingCoordinate, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArm(tt.data)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.index, de.Index)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
			assert.True(t, IsDecodeError(err))
			assert.False(t, IsConnectionError(err))
		})
	}
}

func TestArm_Geometry(t *testing.T) {
	straight := Arm{
		Shoulder: r3.Vec{X: 0},
		Elbow:    r3.Vec{X: 1},
		Wrist:    r3.Vec{X: 2},
	}
	assert.InDelta(t, 180, straight.ElbowAngle(), 1e-9)
	assert.InDelta(t, 2, straight.Reach(), 1e-9)

	bent := Arm{
		Shoulder: r3.Vec{X: 0},
		Elbow:    r3.Vec{X: 1},
		Wrist:    r3.Vec{X: 1, Y: 1},
	}
	assert.InDelta(t, 90, bent.ElbowAngle(), 1e-9)

	assert.Zero(t, Arm{}.ElbowAngle())
}

func TestStore(t *testing.T) {
	s := NewStore()
	st := s.Snapshot()
	assert.False(t, st.HasArm)
	assert.True(t, st.Stale(time.Now(), time.Second))

	now := time.Now()
	s.Update(Arm{Wrist: r3.Vec{X: 1}, Received: now})
	s.Update(Arm{Wrist: r3.Vec{X: 2}})
	s.RecordError(&DecodeError{Reason: "bad", Index: -1})
	s.SetConnected(true)

	st = s.Snapshot()
	assert.True(t, st.HasArm)
	assert.Equal(t, 2, st.Received)
	assert.Equal(t, 1, st.DecodeErrors)
	assert.Equal(t, 2.0, st.Arm.Wrist.X)
	assert.True(t, st.Connected)
	assert.False(t, st.LastSeen.IsZero())
	assert.False(t, st.Stale(st.LastSeen.Add(time.Second), 2*time.Second))
	assert.True(t, st.Stale(st.LastSeen.Add(3*time.Second), 2*time.Second))

	s.RecordError(&ConnectionError{Op: "read", URL: "ws://x", Cause: errors.New("reset")})
	st = s.Snapshot()
	assert.False(t, st.Connected)
	assert.Equal(t, 1, st.DecodeErrors)
	assert.Contains(t, st.LastError, "reset")
}

func TestMockFeed_Frames(t *testing.T) {
	f := NewMockFeed()
	f.dropRate = 0

	for i := 0; i < 100; i++ {
		arm, err := ParseArm(f.Frame(float64(i) * 0.05))
		require.NoError(t, err)
		assert.InDelta(t, 0.18, r3.Norm(r3.Sub(arm.Elbow, arm.Shoulder)), 0.01)
	}

	f.dropRate = 1
	_, err := ParseArm(f.Frame(0))
	assert.ErrorIs(t, err, ErrShortFrame)
}

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestMockFeed_StartStop(t *testing.T) {
	f := NewMockFeed()
	f.interval = 5 * time.Millisecond
	f.dropRate = 0
	msgs := make(chanSender, 1024)

	require.NoError(t, f.Start(msgs))
	defer f.Stop()

	first := <-msgs
	assert.Equal(t, FeedStateMsg{Connected: true, Source: "demo"}, first)

	select {
	case msg := <-msgs:
		_, ok := msg.(ArmMsg)
		assert.True(t, ok, "got %T", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no arm from mock feed")
	}
}

// stuckSender models a program that is not reading messages yet.
type stuckSender struct {
	release chan struct{}
}

func (s stuckSender) Send(tea.Msg) { <-s.release }

// returnsWithin fails the test when fn does not return in time.
func returnsWithin(t *testing.T, d time.Duration, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("%s blocked", what)
	}
}

func TestMockFeed_NeverBlocksOnSender(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := NewMockFeed()
	f.interval = time.Millisecond
	sender := stuckSender{release: release}

	returnsWithin(t, time.Second, "Start", func() { require.NoError(t, f.Start(sender)) })
	time.Sleep(10 * time.Millisecond)
	returnsWithin(t, time.Second, "Stop", f.Stop)
}
