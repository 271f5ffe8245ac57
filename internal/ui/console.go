package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-phonebook/internal/config"
)

type inputLine struct {
	text string
	err  error
}

// Console is the line-oriented terminal: one reader, one writer.
// Colour is only emitted when the writer is a terminal.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer

	lines chan inputLine
	done  chan struct{}
	start sync.Once
	stop  sync.Once

	header  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	plain   lipgloss.Style
	prompt  lipgloss.Style
}

// NewConsole binds the console to r and w.
func NewConsole(r io.Reader, w io.Writer) *Console {
	renderer := lipgloss.NewRenderer(w)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), config.MaxInputLineSize)
	return &Console{
		scanner: scanner,
		out:     w,
		lines:   make(chan inputLine, config.ChannelBufferSize),
		done:    make(chan struct{}),
		header:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		success: renderer.NewStyle().Foreground(lipgloss.Color("10")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("9")),
		plain:   renderer.NewStyle(),
		prompt:  renderer.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// readLoop feeds lines until end of input or Close.
func (c *Console) readLoop() {
	defer close(c.lines)
	for c.scanner.Scan() {
		select {
		case c.lines <- inputLine{text: c.scanner.Text()}:
		case <-c.done:
			return
		}
	}
	if err := c.scanner.Err(); err != nil {
		select {
		case c.lines <- inputLine{err: err}:
		case <-c.done:
		}
	}
}

// ReadLine prompts and waits for one line. ok is false at end of input.
// A cancelled ctx returns its error without waiting for input.
func (c *Console) ReadLine(ctx context.Context, prompt string) (line string, ok bool, err error) {
	c.start.Do(func() { go c.readLoop() })

	if prompt != "" {
		c.write(c.prompt, prompt, false)
	}

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case in, open := <-c.lines:
		if !open {
			return "", false, nil
		}
		if in.err != nil {
			return "", false, fmt.Errorf("%s: %w", config.ErrInputRead, in.err)
		}
		return in.text, true, nil
	}
}

// Close releases the reader goroutine once it gets the next line.
func (c *Console) Close() {
	c.stop.Do(func() { close(c.done) })
}

func (c *Console) Header(text string)  { c.write(c.header, text, true) }
func (c *Console) Success(text string) { c.write(c.success, text, true) }
func (c *Console) Failure(text string) { c.write(c.failure, text, true) }
func (c *Console) Info(text string)    { c.write(c.plain, text, true) }

// Raw writes text without styling or a trailing newline.
func (c *Console) Raw(text string) { _, _ = io.WriteString(c.out, text) }

// write styles line by line so lipgloss does not pad lines to a common width.
func (c *Console) write(style lipgloss.Style, text string, newline bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			_, _ = io.WriteString(c.out, style.Render(line))
		}
		if i < len(lines)-1 || newline {
			_, _ = io.WriteString(c.out, "\n")
		}
	}
}
