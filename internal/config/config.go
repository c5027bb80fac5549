package config

import "time"

const (
	// Arc motion
	DefaultRadius        = 10.0         // Distance from listener to source (scene units)
	DefaultAngularSpeed  = 30.0         // Degrees per second
	DefaultStaticSeconds = 5.0          // Static mode playback length
	DefaultSourceHeight  = 0.0          // Initial source Y in the horizontal plane
	DefaultTargets       = "fine"       // Target set name (fine|coarse)
	DefaultPlane         = "horizontal" // Initial plane (horizontal|vertical)
	MaxDeltaTime         = 0.25         // Frame gap clamp (seconds) after stalls

	// Audio
	VolumeFalloff   = 20.0  // Distance at which volume reaches zero
	DefaultToneHz   = 440.0 // Stimulus tone when no WAV file is given
	SampleRate      = 44100 // Speaker sample rate
	SpeakerBufferMs = 100   // Speaker buffer length

	// Pose feed
	DefaultPoseURL   = "ws://localhost:8000"
	PoseDialTimeout  = 10 * time.Second
	PoseReadLimit    = 1 << 20 // 1MB per message
	ShoulderIndex    = 12
	ElbowIndex       = 14
	WristIndex       = 16
	MockPoseInterval = 50 * time.Millisecond
	PoseStaleAfter   = 2 * time.Second

	// Radar display
	AspectRatio = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount   = 4   // Number of concentric rings
	TargetFPS   = 30  // Target frames per second
	HistoryLen  = 120 // Angle samples kept for the sparkline

	// Output
	DefaultOutputDir = "."
	AngleLogName     = "angle_log.csv"
	DefaultLogFile   = "arcsound.log"

	// App
	AppName    = "ARC-SOUND"
	AppVersion = "1.0"
)
