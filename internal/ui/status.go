package ui

import (
	"fmt"
	"io"
)

// StatusDisplay shows a transient one-line status, e.g. while speech plays.
type StatusDisplay struct {
	formatter *Formatter
	out       io.Writer
	enabled   bool
}

func NewStatusDisplay(formatter *Formatter, out io.Writer, enabled bool) *StatusDisplay {
	return &StatusDisplay{
		formatter: formatter,
		out:       out,
		enabled:   enabled,
	}
}

func (s *StatusDisplay) Show(message string) {
	if !s.enabled {
		return
	}

	fmt.Fprint(s.out, "\r\033[K")
	fmt.Fprint(s.out, s.formatter.FormatStatus(message))
}

func (s *StatusDisplay) Hide() {
	if !s.enabled {
		return
	}

	fmt.Fprint(s.out, "\r\033[K")
}
