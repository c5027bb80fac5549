package app

import (
	"context"

	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/pose"
	"arc-sound.klederson.com/internal/remote"
)

// Dispatcher forwards remote requests into the program's update loop and
// waits for the answer. Send blocks until the loop takes the message, so it
// runs in its own goroutine and the wait is bounded by ctx alone. Replies are
// buffered; a late answer is dropped with the channel.
type Dispatcher struct {
	p pose.Sender
}

var _ remote.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher sending to p.
func NewDispatcher(p pose.Sender) *Dispatcher {
	return &Dispatcher{p: p}
}

// Command implements remote.Dispatcher.
func (d *Dispatcher) Command(ctx context.Context, cmd arc.Command) error {
	reply := make(chan error, 1)
	go d.p.Send(RemoteCommandMsg{Cmd: cmd, Reply: reply})
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Save implements remote.Dispatcher.
func (d *Dispatcher) Save(ctx context.Context, name string) (string, error) {
	reply := make(chan SaveResult, 1)
	go d.p.Send(RemoteSaveMsg{Name: name, Reply: reply})
	select {
	case res := <-reply:
		return res.Path, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
