// Package arc moves a virtual sound source around a listener along circular arcs.
//
// The Controller is single-threaded: every method must be called from the same
// goroutine, normally the UI update loop that also drives Tick.
package arc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"arc-sound.klederson.com/internal/config"
	"arc-sound.klederson.com/internal/log"
	"arc-sound.klederson.com/internal/trajectory"
)

// Listener supplies the reference point the circle is centred on.
type Listener interface {
	Position() r3.Vec
}

// FixedListener is a listener that stays where it is put.
type FixedListener struct {
	Pos r3.Vec
}

// Position implements Listener.
func (l *FixedListener) Position() r3.Vec { return l.Pos }

// AudioSink starts and stops stimulus playback.
type AudioSink interface {
	Play()
	Stop()
}

// Exporter persists a finished trajectory under a name and returns where it went.
type Exporter interface {
	Export(name string, samples []trajectory.Sample) (string, error)
}

// RunSummary is handed to the run-complete hook when a moving run arrives.
type RunSummary struct {
	SessionID string
	Run       int
	Arc       Arc
	Plane     Plane
	Samples   []trajectory.Sample
	Elapsed   float64
}

// Config holds the controller parameters.
type Config struct {
	Radius         float64 // Circle radius in world units
	AngularSpeed   float64 // Degrees per second
	StaticDuration float64 // Seconds of playback in static mode
	SourceHeight   float64 // Initial Y of the source
	Targets        TargetSet
	Plane          Plane
}

// DefaultConfig returns the stock apparatus settings.
func DefaultConfig() Config {
	return Config{
		Radius:         config.DefaultRadius,
		AngularSpeed:   config.DefaultAngularSpeed,
		StaticDuration: config.DefaultStaticSeconds,
		SourceHeight:   config.DefaultSourceHeight,
		Targets:        FineTargets,
		Plane:          Horizontal,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("arc: radius must be positive, got %v", c.Radius)
	}
	if !(c.AngularSpeed > 0) || math.IsInf(c.AngularSpeed, 0) {
		return fmt.Errorf("arc: angular speed must be positive, got %v", c.AngularSpeed)
	}
	if c.StaticDuration < 0 || math.IsNaN(c.StaticDuration) {
		return fmt.Errorf("arc: static duration must not be negative, got %v", c.StaticDuration)
	}
	return c.Targets.Validate()
}

// Option configures a Controller.
type Option func(*Controller)

// WithListener sets the listener. Defaults to a FixedListener at the origin.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithAudio sets the audio sink. Defaults to a silent sink.
func WithAudio(a AudioSink) Option {
	return func(c *Controller) { c.audio = a }
}

// WithExporter sets the trajectory exporter used by Save.
func WithExporter(e Exporter) Option {
	return func(c *Controller) { c.exporter = e }
}

// WithRand sets the random source for target draws.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRunComplete registers a hook fired when a moving run arrives at its end angle.
func WithRunComplete(fn func(RunSummary)) Option {
	return func(c *Controller) { c.onRunComplete = fn }
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

type silentAudio struct{}

func (silentAudio) Play() {}
func (silentAudio) Stop() {}

// Controller owns the arc state machine.
type Controller struct {
	cfg           Config
	listener      Listener
	audio         AudioSink
	exporter      Exporter
	rng           *rand.Rand
	logger        *slog.Logger
	onRunComplete func(RunSummary)
	sessionID     string

	target      Arc
	previous    Arc
	hasPrevious bool

	current  float64
	position r3.Vec
	plane    Plane
	mode     Mode
	phase    Phase

	travelled       float64
	runElapsed      float64
	staticRemaining float64
	runs            int
	trajectory      []trajectory.Sample
}

// New creates a controller with a freshly drawn target and the source placed at its start.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:   cfg,
		plane: cfg.Plane,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.listener == nil {
		c.listener = &FixedListener{}
	}
	if c.audio == nil {
		c.audio = silentAudio{}
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
	}
	if c.logger == nil {
		c.logger = log.With("component", "arc")
	}
	c.logger = c.logger.With("session", c.sessionID)

	c.position = c.listener.Position()
	c.position.Y = cfg.SourceHeight

	c.target = cfg.Targets.Draw(c.rng)
	c.current = c.target.Start
	c.recomputePosition()
	return c, nil
}

// SetRandomTarget draws a new arc from the target set and moves the source to its start.
func (c *Controller) SetRandomTarget() error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.setTarget(c.cfg.Targets.Draw(c.rng))
	return nil
}

// SetTarget sets an explicit arc from start to end travelling in dir.
func (c *Controller) SetTarget(start, end float64, dir Direction) error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	c.setTarget(ArcBetween(start, end, dir))
	return nil
}

func (c *Controller) setTarget(a Arc) {
	c.target = a
	c.current = a.Start
	c.recomputePosition()
	c.logger.Debug("target set",
		"start", a.Start,
		"end", a.End,
		"direction", a.Direction.String(),
		"span", a.Span)
}

// Start begins a moving run, or static playback in static mode.
func (c *Controller) Start() error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	if c.mode == ModeStatic {
		c.beginStatic()
		return nil
	}
	c.beginRun()
	return nil
}

// RepeatLast replays the previous run's arc without drawing a new one.
func (c *Controller) RepeatLast() error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	if !c.hasPrevious {
		c.logger.Warn("repeat requested with no previous run")
		return ErrNoPreviousRun
	}
	c.target = c.previous
	if c.mode == ModeStatic {
		c.current = c.previous.Start
		c.recomputePosition()
		c.beginStatic()
		return nil
	}
	c.beginRun()
	return nil
}

func (c *Controller) beginRun() {
	c.previous = c.target
	c.hasPrevious = true
	c.current = c.target.Start
	c.recomputePosition()
	c.trajectory = nil
	c.travelled = 0
	c.runElapsed = 0
	c.runs++
	c.phase = PhaseMoving
	c.audio.Play()
	c.logger.Info("run started",
		"run", c.runs,
		"start", c.target.Start,
		"end", c.target.End,
		"direction", c.target.Direction.String(),
		"plane", c.plane.String())
}

func (c *Controller) beginStatic() {
	c.staticRemaining = c.cfg.StaticDuration
	c.phase = PhaseStaticPlay
	c.audio.Play()
	c.logger.Info("static play started", "angle", c.current, "seconds", c.cfg.StaticDuration)
}

// Tick advances the controller by dt seconds. Negative or NaN dt counts as zero.
func (c *Controller) Tick(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	switch c.phase {
	case PhaseMoving:
		c.advance(dt)
	case PhaseStaticPlay:
		c.staticRemaining -= dt
		if c.staticRemaining <= 0 {
			c.staticRemaining = 0
			c.phase = PhaseIdle
			c.audio.Stop()
			c.logger.Info("static play finished")
		}
	}
}

func (c *Controller) advance(dt float64) {
	c.runElapsed += dt
	c.travelled += c.cfg.AngularSpeed * dt

	arrived := c.travelled >= c.target.Span
	if arrived {
		c.travelled = c.target.Span
		c.current = c.target.End
	} else {
		c.current = Normalize(c.target.Start + c.target.Direction.Sign()*c.travelled)
	}
	c.recomputePosition()
	c.trajectory = append(c.trajectory, trajectory.Sample{Time: c.runElapsed, Angle: c.current})

	if arrived {
		c.finishRun()
	}
}

func (c *Controller) finishRun() {
	c.phase = PhaseIdle
	c.audio.Stop()
	c.logger.Info("run complete",
		"run", c.runs,
		"angle", c.current,
		"samples", len(c.trajectory),
		"elapsed", c.runElapsed)

	if c.onRunComplete != nil {
		c.onRunComplete(RunSummary{
			SessionID: c.sessionID,
			Run:       c.runs,
			Arc:       c.target,
			Plane:     c.plane,
			Samples:   trajectory.Clone(c.trajectory),
			Elapsed:   c.runElapsed,
		})
	}
}

// ToggleStaticMode flips between moving and static mode.
// Entering static mode stops a moving run where it is.
func (c *Controller) ToggleStaticMode() {
	if c.mode == ModeMoving {
		c.mode = ModeStatic
		if c.phase == PhaseMoving {
			c.phase = PhaseIdle
			c.audio.Stop()
		}
	} else {
		c.mode = ModeMoving
	}
	c.logger.Info("mode changed", "mode", c.mode.String())
}

// TogglePlane flips the plane, abandons any movement or playback and parks the source at 0 degrees.
func (c *Controller) TogglePlane() {
	if c.plane == Horizontal {
		c.plane = Vertical
	} else {
		c.plane = Horizontal
	}
	if c.phase != PhaseIdle {
		c.phase = PhaseIdle
		c.staticRemaining = 0
		c.audio.Stop()
	}
	c.target = ArcBetween(0, c.target.End, c.target.Direction)
	c.current = 0
	c.recomputePosition()
	c.logger.Info("plane changed", "plane", c.plane.String())
}

// Save exports the current trajectory under name and returns the written path.
func (c *Controller) Save(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		c.logger.Warn("export name rejected", "name", name)
		return "", ErrInvalidName
	}
	if c.exporter == nil {
		return "", &IOError{Name: name, Cause: ErrNoExporter}
	}

	path, err := c.exporter.Export(name, trajectory.Clone(c.trajectory))
	if err != nil {
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			ioErr = &IOError{Name: name, Path: path, Cause: err}
		}
		c.logger.Error("trajectory export failed", "name", name, "error", ioErr)
		return "", ioErr
	}
	c.logger.Info("trajectory saved", "path", path, "samples", len(c.trajectory))
	return path, nil
}

func (c *Controller) recomputePosition() {
	theta := Radians(c.current)
	l := c.listener.Position()
	r := c.cfg.Radius
	switch c.plane {
	case Vertical:
		c.position = r3.Vec{
			X: l.X + r*math.Cos(theta),
			Y: l.Y + r*math.Sin(theta),
			Z: l.Z,
		}
	default:
		c.position = r3.Vec{
			X: l.X + r*math.Cos(theta),
			Y: c.position.Y,
			Z: l.Z + r*math.Sin(theta),
		}
	}
}

// Phase returns the movement phase.
func (c *Controller) Phase() Phase { return c.phase }

// Mode returns the static/moving submode.
func (c *Controller) Mode() Mode { return c.mode }

// Plane returns the active plane.
func (c *Controller) Plane() Plane { return c.plane }

// CurrentAngle returns the source angle in degrees.
func (c *Controller) CurrentAngle() float64 { return c.current }

// Position returns the last computed source position.
func (c *Controller) Position() r3.Vec { return c.position }

// Target returns the arc of the current or next run.
func (c *Controller) Target() Arc { return c.target }

// Listener returns the listener the circle is centred on.
func (c *Controller) Listener() Listener { return c.listener }

// SessionID returns the session identifier.
func (c *Controller) SessionID() string { return c.sessionID }

// Trajectory returns a copy of the recorded samples.
func (c *Controller) Trajectory() []trajectory.Sample {
	return trajectory.Clone(c.trajectory)
}

// State is a point-in-time snapshot of the controller.
type State struct {
	SessionID       string  `json:"session_id"`
	Run             int     `json:"run"`
	Phase           Phase   `json:"phase"`
	Mode            Mode    `json:"mode"`
	Plane           Plane   `json:"plane"`
	Target          Arc     `json:"target"`
	CurrentAngle    float64 `json:"current_angle"`
	Position        r3.Vec  `json:"position"`
	Radius          float64 `json:"radius"`
	AngularSpeed    float64 `json:"angular_speed"`
	HasPrevious     bool    `json:"has_previous"`
	Previous        Arc     `json:"previous"`
	Samples         int     `json:"samples"`
	Elapsed         float64 `json:"elapsed"`
	StaticRemaining float64 `json:"static_remaining"`
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	return State{
		SessionID:       c.sessionID,
		Run:             c.runs,
		Phase:           c.phase,
		Mode:            c.mode,
		Plane:           c.plane,
		Target:          c.target,
		CurrentAngle:    c.current,
		Position:        c.position,
		Radius:          c.cfg.Radius,
		AngularSpeed:    c.cfg.AngularSpeed,
		HasPrevious:     c.hasPrevious,
		Previous:        c.previous,
		Samples:         len(c.trajectory),
		Elapsed:         c.runElapsed,
		StaticRemaining: c.staticRemaining,
	}
}
