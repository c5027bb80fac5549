package arc

import (
	"fmt"
	"strings"
)

// Command is a discrete UI event routed to one controller operation.
type Command int

const (
	CmdStart Command = iota
	CmdNext
	CmdRepeat
	CmdToggleMode
	CmdTogglePlane
)

var commandNames = map[Command]string{
	CmdStart:       "start",
	CmdNext:        "next",
	CmdRepeat:      "repeat",
	CmdToggleMode:  "mode",
	CmdTogglePlane: "plane",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand maps a textual command name to a Command.
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for cmd, n := range commandNames {
		if n == name {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Commands lists every dispatchable command in order.
func Commands() []Command {
	return []Command{CmdStart, CmdNext, CmdRepeat, CmdToggleMode, CmdTogglePlane}
}

type handler func(c *Controller) error

var dispatch = map[Command]handler{
	CmdStart:  (*Controller).Start,
	CmdNext:   (*Controller).SetRandomTarget,
	CmdRepeat: (*Controller).RepeatLast,
	CmdToggleMode: func(c *Controller) error {
		c.ToggleStaticMode()
		return nil
	},
	CmdTogglePlane: func(c *Controller) error {
		c.TogglePlane()
		return nil
	},
}

// Dispatch runs the operation bound to cmd.
func (c *Controller) Dispatch(cmd Command) error {
	h, ok := dispatch[cmd]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return h(c)
}
