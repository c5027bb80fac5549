package trajectory

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"arc-sound.klederson.com/internal/fsutil"
	"arc-sound.klederson.com/internal/log"
)

// Writer exports trajectories as <dir>/<name>.csv, plus <name>.png when plotting is on.
type Writer struct {
	fs     fsutil.FileSystem
	dir    string
	plot   bool
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithPlot enables the PNG plot alongside the CSV.
func WithPlot(enabled bool) Option {
	return func(w *Writer) { w.plot = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(fs fsutil.FileSystem, dir string, opts ...Option) *Writer {
	if dir == "" {
		dir = "."
	}
	w := &Writer{fs: fs, dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.With("component", "trajectory")
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Export writes samples to <dir>/<name>.csv and returns the path.
// A failed plot is logged and does not fail the export.
func (w *Writer) Export(name string, samples []Sample) (string, error) {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, name+".csv")
	if err := w.writeFile(path, func(f io.Writer) error { return WriteCSV(f, samples) }); err != nil {
		return path, err
	}
	w.logger.Debug("trajectory csv written", "path", path, "samples", len(samples), "duration", Duration(samples))

	if w.plot && len(samples) > 0 {
		pngPath := filepath.Join(w.dir, name+".png")
		err := w.writeFile(pngPath, func(f io.Writer) error { return WritePlot(f, name, samples) })
		if err != nil {
			w.logger.Warn("trajectory plot failed", "path", pngPath, "error", err)
		} else {
			w.logger.Debug("trajectory plot written", "path", pngPath)
		}
	}
	return path, nil
}

// writeFile creates path, runs fn and always closes the handle. The first error wins.
func (w *Writer) writeFile(path string, fn func(io.Writer) error) error {
	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	werr := fn(f)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write %s: %w", path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("close %s: %w", path, cerr)
	}
	return nil
}
