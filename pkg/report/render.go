package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// TextWriter renders reports as console text, one "Processing" header per
// section followed by its entries colored by level.
type TextWriter struct {
	w       io.Writer
	header  *color.Color
	colors  map[Level]*color.Color
	failure *color.Color
}

// NewTextWriter creates a TextWriter. When noColor is false colors are
// written even if w is not a terminal.
func NewTextWriter(w io.Writer, noColor bool) *TextWriter {
	tw := &TextWriter{
		w:      w,
		header: color.New(color.FgCyan),
		colors: map[Level]*color.Color{
			LevelDebug: color.New(color.FgCyan),
			LevelInfo:  color.New(color.Reset),
			LevelWarn:  color.New(color.FgYellow),
			LevelError: color.New(color.FgRed),
		},
		failure: color.New(color.FgRed, color.Bold),
	}
	for _, c := range tw.all() {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return tw
}

func (tw *TextWriter) all() []*color.Color {
	out := []*color.Color{tw.header, tw.failure}
	for _, c := range tw.colors {
		out = append(out, c)
	}
	return out
}

// Write renders every section of rep.
func (tw *TextWriter) Write(rep *Report) error {
	for _, s := range rep.Sections {
		if err := tw.WriteSection(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteSection renders one section. The header is written even when the
// section has no entries.
func (tw *TextWriter) WriteSection(s *Section) error {
	if _, err := tw.header.Fprintf(tw.w, "Processing %s\n", s.Title); err != nil {
		return err
	}
	if s.Failed() {
		if _, err := tw.failure.Fprintf(tw.w, "Error: %s\n", s.Error); err != nil {
			return err
		}
	}
	for _, e := range s.Entries {
		c, ok := tw.colors[e.Level]
		if !ok {
			c = tw.colors[LevelInfo]
		}
		if _, err := c.Fprintln(tw.w, e.Message); err != nil {
			return err
		}
	}
	return nil
}

// WriteText renders rep to w.
func WriteText(w io.Writer, rep *Report, noColor bool) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}
	return NewTextWriter(w, noColor).Write(rep)
}
