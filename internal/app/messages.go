package app

import (
	"time"

	"arc-sound.klederson.com/internal/arc"
)

// TickMsg triggers a frame update.
type TickMsg time.Time

// RemoteCommandMsg carries a command from the remote API into the update loop.
// The result is written to Reply, which must be buffered.
type RemoteCommandMsg struct {
	Cmd   arc.Command
	Reply chan<- error
}

// SaveResult is the outcome of a remote save.
type SaveResult struct {
	Path string
	Err  error
}

// RemoteSaveMsg carries a save request from the remote API into the update loop.
type RemoteSaveMsg struct {
	Name  string
	Reply chan<- SaveResult
}
