// Package console reads line-oriented operator commands from the
// serial line. It is a convenience/test surface with a fixed, tiny
// vocabulary; anything unrecognized is silently dropped. Input is
// trusted by physical access — there is no authentication.
package console

import (
	"bufio"
	"io"
	"strings"

	"github.com/Audreyz7/DeerHacks26/pkg/logger"
)

// Command is one recognized operator action.
type Command int

const (
	// CmdDrink logs a default-quantity intake, then refreshes the summary.
	CmdDrink Command = iota
	// CmdSummary refreshes the summary.
	CmdSummary
	// CmdSchedule refreshes the schedule.
	CmdSchedule
	// CmdPoll runs a reminder poll immediately.
	CmdPoll
)

// String returns the command token.
func (c Command) String() string {
	switch c {
	case CmdDrink:
		return "drink"
	case CmdSummary:
		return "summary"
	case CmdSchedule:
		return "schedule"
	case CmdPoll:
		return "poll"
	default:
		return "unknown"
	}
}

// Parse maps a raw input line to a Command. Matching is
// case-insensitive after trimming whitespace.
func Parse(line string) (Command, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "drink":
		return CmdDrink, true
	case "summary":
		return CmdSummary, true
	case "schedule":
		return CmdSchedule, true
	case "poll":
		return CmdPoll, true
	default:
		return 0, false
	}
}

// lineBuffer is the small mailbox between the reader goroutine and the
// agent loop. Lines beyond the buffer are dropped; an operator typing
// faster than the loop drains is not a supported mode.
const lineBuffer = 8

// Console owns the reader goroutine and hands the agent loop at most
// one line per Poll call, without blocking.
type Console struct {
	lines chan string
}

// New starts reading newline-terminated input from r.
func New(r io.Reader) *Console {
	c := &Console{lines: make(chan string, lineBuffer)}
	go c.read(r)
	return c
}

func (c *Console) read(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		default:
			logger.Debugf("console: input buffer full, dropping line")
		}
	}
	close(c.lines)
}

// Poll returns the next pending command, if any, without blocking. A
// pending line that is not a recognized command is consumed and
// ignored.
func (c *Console) Poll() (Command, bool) {
	select {
	case line, ok := <-c.lines:
		if !ok {
			return 0, false
		}
		cmd, recognized := Parse(line)
		if !recognized {
			if strings.TrimSpace(line) != "" {
				logger.Debugf("console: ignoring %q", line)
			}
			return 0, false
		}
		logger.Infof("console: %s", cmd)
		return cmd, true
	default:
		return 0, false
	}
}
