package anglelog

import (
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"arc-sound.klederson.com/internal/fsutil"
)

func TestAzimuth(t *testing.T) {
	origin := r3.Vec{}
	tests := []struct {
		name   string
		source r3.Vec
		want   float64
	}{
		{"+x", r3.Vec{X: 1}, 90},
		{"+z", r3.Vec{Z: 1}, 180},
		{"-x", r3.Vec{X: -1}, 270},
		{"-z", r3.Vec{Z: -1}, 0},
		{"diagonal -x-z", r3.Vec{X: -1, Z: -1}, 315},
		{"y is ignored", r3.Vec{X: 1, Y: 50}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Azimuth(origin, tt.source), 1e-9)
		})
	}
}

func TestAzimuth_RelativeToListener(t *testing.T) {
	listener := r3.Vec{X: 5, Y: 1, Z: 5}
	assert.InDelta(t, 90, Azimuth(listener, r3.Vec{X: 15, Y: 1, Z: 5}), 1e-9)
}

func TestAzimuth_Range(t *testing.T) {
	for deg := -720.0; deg <= 720; deg += 7.5 {
		rad := deg * math.Pi / 180
		a := Azimuth(r3.Vec{}, r3.Vec{X: 10 * math.Cos(rad), Z: 10 * math.Sin(rad)})
		assert.GreaterOrEqual(t, a, 0.0)
		assert.Less(t, a, 360.0)
	}
}

func TestLogger_Format(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	l, err := Open(mem, "out")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "angle_log.csv"), l.Path())

	require.NoError(t, l.Log(0, 90))
	require.NoError(t, l.Log(0.016666, 92.456))
	a := Azimuth(r3.Vec{}, r3.Vec{Z: 3})
	assert.InDelta(t, 180, a, 1e-9)
	require.NoError(t, l.Log(1.5, a))
	assert.Equal(t, 3, l.Rows())
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := mem.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Equal(t, "elapsed_time, angle\n0.00,90.00\n0.02,92.46\n1.50,180.00\n", string(data))
	assert.Zero(t, mem.OpenHandles())
}

type countingWriter struct {
	writes int
	data   []byte
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *countingWriter) Close() error { return nil }

func TestLogger_FlushesEveryRow(t *testing.T) {
	cw := &countingWriter{}
	l, err := New(cw)
	require.NoError(t, err)
	assert.Equal(t, 1, cw.writes)

	require.NoError(t, l.Log(1, 2))
	assert.Equal(t, 2, cw.writes)
	assert.Equal(t, "elapsed_time, angle\n1.00,2.00\n", string(cw.data))
}

func TestLogger_ClosedRejectsRows(t *testing.T) {
	l, err := New(&countingWriter{})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	assert.ErrorIs(t, l.Log(1, 2), io.ErrClosedPipe)
}

func TestOpen_Failures(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	mem.FailCreate = true
	_, err := Open(mem, "out")
	assert.ErrorIs(t, err, fsutil.ErrInjected)

	mem = fsutil.NewMemoryFileSystem()
	mem.FailMkdir = true
	_, err = Open(mem, "out")
	assert.ErrorIs(t, err, fsutil.ErrInjected)
}
