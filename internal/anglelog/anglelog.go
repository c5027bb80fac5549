// Package anglelog writes the listener-to-source azimuth once per frame.
package anglelog

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"arc-sound.klederson.com/internal/config"
	"arc-sound.klederson.com/internal/fsutil"
)

// Header is the first line of the angle log.
const Header = "elapsed_time, angle"

// Azimuth returns the source direction on the X/Z plane in degrees, in [0, 360).
// atan2 puts 0 on +X; the +90 shift makes the listener's right read as 90.
func Azimuth(listener, source r3.Vec) float64 {
	d := r3.Sub(source, listener)
	a := math.Atan2(d.Z, d.X) * 180 / math.Pi
	a = math.Mod(a+90, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// Logger appends "elapsed,angle" rows with two decimals, flushing every row.
type Logger struct {
	mu     sync.Mutex
	w      *bufio.Writer
	c      io.Closer
	path   string
	rows   int
	closed bool
}

// New writes the header to wc and returns a logger that owns it.
func New(wc io.WriteCloser) (*Logger, error) {
	l := &Logger{w: bufio.NewWriter(wc), c: wc}
	// Raw write: a csv.Writer would quote the field with a leading space.
	if _, err := io.WriteString(l.w, Header+"\n"); err != nil {
		wc.Close()
		return nil, fmt.Errorf("write angle log header: %w", err)
	}
	if err := l.w.Flush(); err != nil {
		wc.Close()
		return nil, fmt.Errorf("write angle log header: %w", err)
	}
	return l, nil
}

// Open creates <dir>/angle_log.csv on fs.
func Open(fs fsutil.FileSystem, dir string) (*Logger, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create angle log directory: %w", err)
	}
	path := filepath.Join(dir, config.AngleLogName)
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create angle log: %w", err)
	}
	l, err := New(f)
	if err != nil {
		return nil, err
	}
	l.path = path
	return l, nil
}

// Path returns the file path when opened with Open.
func (l *Logger) Path() string { return l.path }

// Rows returns the number of rows written.
func (l *Logger) Rows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows
}

// Log writes one row.
func (l *Logger) Log(elapsed, angle float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return io.ErrClosedPipe
	}
	if _, err := fmt.Fprintf(l.w, "%.2f,%.2f\n", elapsed, angle); err != nil {
		return err
	}
	if err := l.w.Flush(); err != nil {
		return err
	}
	l.rows++
	return nil
}

// Close flushes and closes the underlying writer. Closing twice is a no-op.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	ferr := l.w.Flush()
	cerr := l.c.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
