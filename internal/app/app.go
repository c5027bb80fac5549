package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r3"

	"arc-sound.klederson.com/internal/anglelog"
	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/audio"
	"arc-sound.klederson.com/internal/config"
	"arc-sound.klederson.com/internal/log"
	"arc-sound.klederson.com/internal/pose"
	"arc-sound.klederson.com/internal/radar"
	"arc-sound.klederson.com/internal/remote"
	"arc-sound.klederson.com/internal/ui"
)

// Options wires the model to its collaborators.
type Options struct {
	Audio      audio.Sink       // defaults to a silent sink
	AngleLog   *anglelog.Logger // optional per-frame azimuth log
	Poses      *pose.Store      // defaults to an empty store
	Feed       pose.Feed        // optional pose feed, started by StartFeeds
	FeedSource string           // shown in the menu bar until the feed reports
	Falloff    float64          // volume falloff distance; defaults to config.VolumeFalloff
	Publish    func(remote.Snapshot)
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	ctrl     *arc.Controller
	audio    audio.Sink
	angles   *anglelog.Logger
	poses    *pose.Store
	feed     pose.Feed
	history  *AngleRing
	publish  func(remote.Snapshot)
	falloff  float64
	logger   *slog.Logger
	lastTick time.Time
	elapsed  float64 // session clock for the angle log

	feedSource string
	volume     float64
	distance   float64
	azimuth    float64
	prompt     ui.SavePrompt
	lastSave   string
	logFailed  bool
}

// AppModel is the root Bubble Tea model for the arc apparatus.
type AppModel struct {
	width  int
	height int

	shared *shared
}

// New creates a new AppModel. Call Attach before running the program.
func New(opts Options) AppModel {
	s := &shared{
		audio:      opts.Audio,
		angles:     opts.AngleLog,
		poses:      opts.Poses,
		feed:       opts.Feed,
		feedSource: opts.FeedSource,
		publish:    opts.Publish,
		falloff:    opts.Falloff,
		history:    NewAngleRing(config.HistoryLen),
		logger:     log.With("component", "app"),
	}
	if s.audio == nil {
		s.audio = &audio.Nop{}
	}
	if s.poses == nil {
		s.poses = pose.NewStore()
	}
	if s.falloff <= 0 {
		s.falloff = config.VolumeFalloff
	}
	return AppModel{shared: s}
}

// Attach binds the controller the model drives.
func (m AppModel) Attach(ctrl *arc.Controller) {
	m.shared.ctrl = ctrl
	m.updateLevels()
}

// OnRunComplete is the controller's run-complete hook: it reveals the save prompt.
func (m AppModel) OnRunComplete(sum arc.RunSummary) {
	m.shared.prompt = ui.SavePrompt{
		Visible: true,
		Message: fmt.Sprintf("run %d done: %d samples in %.2fs", sum.Run, len(sum.Samples), sum.Elapsed),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := m.shared
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		now := time.Time(msg)
		dt := 0.0
		if !s.lastTick.IsZero() {
			dt = now.Sub(s.lastTick).Seconds()
		}
		s.lastTick = now
		if dt > config.MaxDeltaTime {
			dt = config.MaxDeltaTime
		}
		m.step(dt)
		return m, tickCmd()

	case RemoteCommandMsg:
		msg.Reply <- m.command(msg.Cmd)
		return m, nil

	case RemoteSaveMsg:
		path, err := m.save(msg.Name)
		msg.Reply <- SaveResult{Path: path, Err: err}
		return m, nil

	case pose.ArmMsg:
		s.poses.Update(msg.Arm)
		return m, nil

	case pose.FeedErrorMsg:
		s.poses.RecordError(msg.Err)
		s.logger.Debug("pose feed error", "err", msg.Err)
		return m, nil

	case pose.FeedStateMsg:
		s.poses.SetConnected(msg.Connected)
		if msg.Source != "" {
			s.feedSource = msg.Source
		}
		return m, nil
	}

	return m, nil
}

// step advances the controller by dt and pushes the new position to audio,
// the angle log and the remote snapshot.
func (m AppModel) step(dt float64) {
	s := m.shared
	if dt < 0 {
		dt = 0
	}
	s.ctrl.Tick(dt)
	s.elapsed += dt
	m.updateLevels()

	if s.angles != nil {
		if err := s.angles.Log(s.elapsed, s.azimuth); err != nil && !s.logFailed {
			s.logFailed = true
			s.logger.Error("angle log write failed", "path", s.angles.Path(), "err", err)
		}
	}
	s.history.Push(s.ctrl.CurrentAngle())
	m.publishSnapshot()
}

func (m AppModel) updateLevels() {
	s := m.shared
	listener := s.ctrl.Listener().Position()
	source := s.ctrl.Position()

	s.distance = r3.Norm(r3.Sub(source, listener))
	s.volume = audio.DistanceVolume(s.distance, s.falloff)
	s.azimuth = anglelog.Azimuth(listener, source)
	s.audio.SetVolume(s.volume)
	s.audio.SetPan(audio.PanForAzimuth(s.azimuth))
}

func (m AppModel) publishSnapshot() {
	s := m.shared
	if s.publish == nil {
		return
	}
	ps := s.poses.Snapshot()
	s.publish(remote.Snapshot{
		State:         s.ctrl.State(),
		Volume:        s.volume,
		Distance:      s.distance,
		Azimuth:       s.azimuth,
		Playing:       s.audio.Playing(),
		Pan:           s.audio.Pan(),
		PoseConnected: ps.Connected,
		PoseReceived:  ps.Received,
		SavePending:   s.prompt.Visible,
		LastSave:      s.lastSave,
		UpdatedAt:     time.Now(),
	})
}

// command runs one controller command and reflects the result in the prompt line.
func (m AppModel) command(cmd arc.Command) error {
	s := m.shared
	err := s.ctrl.Dispatch(cmd)
	if err != nil {
		s.logger.Debug("command rejected", "command", cmd.String(), "err", err)
		if !errors.Is(err, arc.ErrBusy) {
			s.prompt.Message = err.Error()
			s.prompt.Failed = true
		}
		return err
	}

	if s.ctrl.Phase() == arc.PhaseMoving {
		// The previous trajectory is gone once a new run starts.
		s.prompt = ui.SavePrompt{}
		s.history.Reset()
	} else {
		s.prompt.Message = ""
		s.prompt.Failed = false
	}
	m.updateLevels()
	m.publishSnapshot()
	return nil
}

// save exports the trajectory and hides the prompt on success.
func (m AppModel) save(name string) (string, error) {
	s := m.shared
	path, err := s.ctrl.Save(name)
	if err != nil {
		s.logger.Warn("save failed", "name", name, "err", err)
		s.prompt.Message = err.Error()
		s.prompt.Failed = true
		return path, err
	}
	s.lastSave = path
	s.prompt = ui.SavePrompt{Message: "saved " + path}
	m.publishSnapshot()
	return path, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.shared

	if s.prompt.Active {
		switch msg.String() {
		case "ctrl+c":
			m.StopFeeds()
			return m, tea.Quit
		case "enter":
			// Failures stay in the prompt line.
			_, _ = m.save(s.prompt.Name)
		case "esc":
			s.prompt.Active = false
			s.prompt.Name = ""
		case "backspace":
			if n := len(s.prompt.Name); n > 0 {
				s.prompt.Name = s.prompt.Name[:n-1]
			}
		default:
			switch msg.Type {
			case tea.KeyRunes:
				s.prompt.Name += string(msg.Runes)
			case tea.KeySpace:
				s.prompt.Name += " "
			}
		}
		return m, nil
	}

	switch strings.ToLower(msg.String()) {
	case "q", "ctrl+c":
		m.StopFeeds()
		return m, tea.Quit

	case "s":
		_ = m.command(arc.CmdStart)

	case "n":
		_ = m.command(arc.CmdNext)

	case "r":
		_ = m.command(arc.CmdRepeat)

	case "m":
		_ = m.command(arc.CmdToggleMode)

	case "v":
		_ = m.command(arc.CmdTogglePlane)

	case "w":
		if s.prompt.Visible {
			s.prompt.Active = true
			s.prompt.Message = ""
			s.prompt.Failed = false
		}
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}
	s := m.shared
	st := s.ctrl.State()

	menuBar := ui.RenderMenuBar(m.width, s.feedSource, st.Phase)
	prompt := ui.RenderSavePrompt(s.prompt, m.width)
	statusBar := ui.RenderStatusBar(m.width, st, s.volume, s.distance)

	bodyH := m.height - 2
	if prompt != "" {
		bodyH--
	}
	if bodyH < 10 {
		bodyH = 10
	}

	radarW := m.width * 3 / 5
	if radarW < 30 {
		radarW = 30
	}
	sideW := m.width - radarW
	if sideW < 24 {
		sideW = 24
		radarW = m.width - sideW
	}

	innerW := radarW - 4
	innerH := bodyH - 4
	if innerW < 10 {
		innerW = 10
	}
	if innerH < 5 {
		innerH = 5
	}
	view := radar.View{
		Overlay: radar.NewOverlay(st.Target, st.CurrentAngle, st.Phase == arc.PhaseMoving),
		Source:  st.CurrentAngle,
		Plane:   st.Plane,
	}
	title := strings.ToUpper(st.Plane.String()) + " PLANE"
	radarPanel := ui.RenderRadarPanel(radarW, bodyH, title,
		radar.Render(innerW, innerH, view), radar.RenderLegend(innerW, st.Plane))

	sessionH := bodyH * 2 / 3
	session := ui.RenderSessionPanel(ui.SessionView{
		State:    st,
		Volume:   s.volume,
		Distance: s.distance,
		Azimuth:  s.azimuth,
		History:  s.history.Values(),
		LastSave: s.lastSave,
	}, sideW, sessionH)
	poses := ui.RenderPosePanel(s.poses.Snapshot(), s.feedSource, sideW, bodyH-sessionH, time.Now())

	return ui.ComposeLayout(menuBar, radarPanel, ui.StackPanels(session, poses), prompt, statusBar)
}

// StartFeeds starts the pose feed. Must be called before p.Run().
func (m AppModel) StartFeeds(p pose.Sender) error {
	if m.shared.feed == nil {
		return nil
	}
	return m.shared.feed.Start(p)
}

// StopFeeds stops the pose feed. It never blocks, so it is safe inside Update
// and again after p.Run() returns.
func (m AppModel) StopFeeds() {
	if m.shared.feed != nil {
		m.shared.feed.Stop()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
