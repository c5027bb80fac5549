package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"arc-sound.klederson.com/internal/anglelog"
	"arc-sound.klederson.com/internal/app"
	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/audio"
	"arc-sound.klederson.com/internal/config"
	"arc-sound.klederson.com/internal/fsutil"
	"arc-sound.klederson.com/internal/log"
	"arc-sound.klederson.com/internal/pose"
	"arc-sound.klederson.com/internal/remote"
	"arc-sound.klederson.com/internal/trajectory"
)

var (
	flagDemo          bool
	flagPoseURL       string
	flagPoseHello     string
	flagOutputDir     string
	flagTargets       string
	flagRadius        float64
	flagSpeed         float64
	flagStaticSeconds float64
	flagSourceHeight  float64
	flagPlane         string
	flagStimulus      string
	flagToneHz        float64
	flagNoAudio       bool
	flagFalloff       float64
	flagAngleLog      bool
	flagPlot          bool
	flagRemote        string
	flagLogFile       string
	flagLogLevel      string
	flagLogJSON       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arcsound",
		Short: "ARC-SOUND - Moving sound source apparatus with a terminal radar view",
		Long: `ARC-SOUND moves a virtual sound source around the listener along circular
arcs in the horizontal or vertical plane, attenuating it by distance.

Each finished run can be saved as a Time,Angle CSV trajectory. Arm pose
keypoints are read from a tracker over a websocket; use --demo to run
with a synthetic arm instead.`,
		SilenceUsage: true,
		RunE:         run,
	}

	f := rootCmd.Flags()
	f.BoolVar(&flagDemo, "demo", false, "Use a synthetic pose feed instead of the websocket tracker")
	f.StringVar(&flagPoseURL, "pose-url", config.DefaultPoseURL, "Websocket URL of the pose tracker")
	f.StringVar(&flagPoseHello, "pose-hello", "", "Text sent to the tracker once connected")
	f.StringVar(&flagOutputDir, "output-dir", config.DefaultOutputDir, "Directory for trajectory CSVs and the angle log")
	f.StringVar(&flagTargets, "targets", config.DefaultTargets, "Target set: fine or coarse")
	f.Float64Var(&flagRadius, "radius", config.DefaultRadius, "Distance from listener to source")
	f.Float64Var(&flagSpeed, "speed", config.DefaultAngularSpeed, "Angular speed in degrees per second")
	f.Float64Var(&flagStaticSeconds, "static-seconds", config.DefaultStaticSeconds, "Playback length in static mode")
	f.Float64Var(&flagSourceHeight, "source-height", config.DefaultSourceHeight, "Source Y in the horizontal plane")
	f.StringVar(&flagPlane, "plane", config.DefaultPlane, "Initial plane: horizontal or vertical")
	f.StringVar(&flagStimulus, "stimulus", "", "WAV file to play (default: sine tone)")
	f.Float64Var(&flagToneHz, "tone-hz", config.DefaultToneHz, "Sine tone frequency when no stimulus is given")
	f.BoolVar(&flagNoAudio, "no-audio", false, "Do not open the audio device")
	f.Float64Var(&flagFalloff, "falloff", config.VolumeFalloff, "Distance at which the volume reaches zero")
	f.BoolVar(&flagAngleLog, "angle-log", true, "Write the per-frame azimuth log")
	f.BoolVar(&flagPlot, "plot", false, "Also write a PNG plot next to each saved trajectory")
	f.StringVar(&flagRemote, "remote", "", "Listen address for the remote control API, e.g. :8090")
	f.StringVar(&flagLogFile, "log-file", config.DefaultLogFile, "Log file path")
	f.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.BoolVar(&flagLogJSON, "log-json", false, "Write JSON log records")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logFile, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.Init(flagLogLevel, logFile, flagLogJSON)

	cfg, err := controllerConfig()
	if err != nil {
		return err
	}

	sink, err := openAudio()
	if err != nil {
		return err
	}
	defer sink.Close()

	fs := fsutil.OSFileSystem{}
	var angles *anglelog.Logger
	if flagAngleLog {
		angles, err = anglelog.Open(fs, flagOutputDir)
		if err != nil {
			return err
		}
		defer func() {
			rows := angles.Rows()
			if err := angles.Close(); err != nil {
				log.Error("angle log close failed", "path", angles.Path(), "err", err)
				return
			}
			log.Info("angle log closed", "path", angles.Path(), "rows", rows)
		}()
	}

	var feed pose.Feed
	source := flagPoseURL
	if flagDemo {
		feed = pose.NewMockFeed()
		source = "demo"
	} else {
		var opts []pose.ClientOption
		if flagPoseHello != "" {
			opts = append(opts, pose.WithGreeting(flagPoseHello))
		}
		feed = pose.NewWebsocketFeed(pose.NewClient(flagPoseURL, opts...))
	}

	var server *remote.Server
	modelOpts := app.Options{
		Audio:      sink,
		AngleLog:   angles,
		Feed:       feed,
		FeedSource: source,
		Falloff:    flagFalloff,
	}
	// The server is created below; publishing goes through the closure.
	modelOpts.Publish = func(s remote.Snapshot) {
		if server != nil {
			server.Publish(s)
		}
	}
	model := app.New(modelOpts)

	exporter := trajectory.NewWriter(fs, flagOutputDir, trajectory.WithPlot(flagPlot))
	ctrl, err := arc.New(cfg,
		arc.WithAudio(sink),
		arc.WithExporter(exporter),
		arc.WithRunComplete(model.OnRunComplete),
	)
	if err != nil {
		return err
	}
	model.Attach(ctrl)
	log.Info("session started",
		"session", ctrl.SessionID(),
		"targets", cfg.Targets.Name,
		"plane", cfg.Plane.String(),
		"output_dir", exporter.Dir())

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	if flagRemote != "" {
		server = remote.New(app.NewDispatcher(p))
		go func() {
			if err := server.Listen(flagRemote); err != nil {
				log.Error("remote control stopped", "err", err)
			}
		}()
		defer server.Shutdown()
	}

	// A tracker that is not running is reported in the pose panel; the apparatus still works.
	if err := model.StartFeeds(p); err != nil {
		log.Warn("pose feed unavailable", "url", flagPoseURL, "err", err)
	}
	defer model.StopFeeds()

	_, err = p.Run()
	return err
}

func controllerConfig() (arc.Config, error) {
	targets, err := arc.TargetSetByName(flagTargets)
	if err != nil {
		return arc.Config{}, err
	}
	plane, err := arc.ParsePlane(flagPlane)
	if err != nil {
		return arc.Config{}, err
	}

	cfg := arc.DefaultConfig()
	cfg.Radius = flagRadius
	cfg.AngularSpeed = flagSpeed
	cfg.StaticDuration = flagStaticSeconds
	cfg.SourceHeight = flagSourceHeight
	cfg.Targets = targets
	cfg.Plane = plane
	return cfg, cfg.Validate()
}

func openAudio() (audio.Sink, error) {
	if flagNoAudio {
		return &audio.Nop{}, nil
	}

	out, err := audio.OpenSpeaker()
	if err != nil {
		return nil, fmt.Errorf("open audio device (try --no-audio): %w", err)
	}

	if flagStimulus != "" {
		src, closer, err := audio.LoadWAV(flagStimulus)
		if err != nil {
			audio.CloseSpeaker()
			return nil, err
		}
		return &speakerSink{Player: audio.NewPlayer(src, out, closer)}, nil
	}

	tone, err := audio.Tone(flagToneHz)
	if err != nil {
		audio.CloseSpeaker()
		return nil, err
	}
	return &speakerSink{Player: audio.NewPlayer(tone, out, nil)}, nil
}

// speakerSink releases the audio device along with the player.
type speakerSink struct {
	*audio.Player
}

func (s *speakerSink) Close() error {
	err := s.Player.Close()
	audio.CloseSpeaker()
	return err
}
