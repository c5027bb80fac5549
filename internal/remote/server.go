// Package remote exposes the apparatus commands over HTTP so an experimenter
// can drive runs from another machine.
package remote

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/log"
)

// Dispatcher executes requests on the goroutine that owns the controller.
type Dispatcher interface {
	Command(ctx context.Context, cmd arc.Command) error
	Save(ctx context.Context, name string) (string, error)
}

// Snapshot is the state served by GET /api/state.
type Snapshot struct {
	State         arc.State `json:"state"`
	Volume        float64   `json:"volume"`
	Distance      float64   `json:"distance"`
	Azimuth       float64   `json:"azimuth"`
	Playing       bool      `json:"playing"`
	Pan           float64   `json:"pan"`
	PoseConnected bool      `json:"pose_connected"`
	PoseReceived  int       `json:"pose_received"`
	SavePending   bool      `json:"save_pending"`
	LastSave      string    `json:"last_save,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SaveRequest is the body of POST /api/save.
type SaveRequest struct {
	Name string `json:"name"`
}

// CommandInfo describes a dispatchable command.
type CommandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var commandInfo = map[arc.Command]string{
	arc.CmdStart:       "Start the current arc, or play in place in static mode",
	arc.CmdNext:        "Draw a new random target",
	arc.CmdRepeat:      "Run the previous arc again",
	arc.CmdToggleMode:  "Switch between moving and static mode",
	arc.CmdTogglePlane: "Switch between horizontal and vertical plane",
}

// RequestTimeout bounds how long a handler waits for the UI loop.
const RequestTimeout = 2 * time.Second

// Server is the remote control HTTP server.
type Server struct {
	app    *fiber.App
	disp   Dispatcher
	logger *slog.Logger

	snapMu sync.RWMutex
	snap   Snapshot
}

// New creates a Server forwarding to d.
func New(d Dispatcher) *Server {
	s := &Server{
		disp:   d,
		logger: log.With("component", "remote"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "arcsound remote",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/commands", s.handleListCommands)
	api.Post("/commands/:name", s.handleCommand)
	api.Post("/save", s.handleSave)

	s.app = app
	return s
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("remote control listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Publish replaces the served snapshot.
func (s *Server) Publish(snap Snapshot) {
	s.snapMu.Lock()
	s.snap = snap
	s.snapMu.Unlock()
}

// Snapshot returns the last published snapshot.
func (s *Server) Snapshot() Snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.Snapshot())
}

func (s *Server) handleListCommands(c *fiber.Ctx) error {
	cmds := arc.Commands()
	out := make([]CommandInfo, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, CommandInfo{Name: cmd.String(), Description: commandInfo[cmd]})
	}
	return c.JSON(out)
}

func (s *Server) handleCommand(c *fiber.Ctx) error {
	cmd, err := arc.ParseCommand(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), RequestTimeout)
	defer cancel()

	if err := s.disp.Command(ctx, cmd); err != nil {
		s.logger.Warn("remote command failed", "command", cmd.String(), "err", err)
		return c.Status(statusFor(err)).JSON(fiber.Map{"command": cmd.String(), "error": err.Error()})
	}
	s.logger.Info("remote command", "command", cmd.String())
	return c.JSON(fiber.Map{"command": cmd.String()})
}

func (s *Server) handleSave(c *fiber.Ctx) error {
	var req SaveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": arc.ErrInvalidName.Error()})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), RequestTimeout)
	defer cancel()

	path, err := s.disp.Save(ctx, req.Name)
	if err != nil {
		s.logger.Warn("remote save failed", "name", req.Name, "err", err)
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "path": path})
	}
	return c.JSON(fiber.Map{"path": path})
}

// statusFor maps controller errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, arc.ErrInvalidName), errors.Is(err, arc.ErrUnknownCommand):
		return fiber.StatusBadRequest
	case errors.Is(err, arc.ErrBusy), errors.Is(err, arc.ErrNoPreviousRun):
		return fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
