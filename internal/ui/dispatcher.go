package ui

import (
	"context"
	"slices"
	"strings"

	"github.com/tartampluch/go-phonebook/internal/config"
)

// Handler runs one command. rest is the input that follows the command prefix.
type Handler func(ctx context.Context, rest string) error

type route struct {
	prefix string
	run    Handler
}

// Dispatcher matches input lines against command prefixes in registration order.
// Matching is case-sensitive, so longer prefixes must be registered first.
type Dispatcher struct {
	routes []route
}

// Register appends prefixes that all run h.
func (d *Dispatcher) Register(h Handler, prefixes ...string) {
	for _, p := range prefixes {
		d.routes = append(d.routes, route{prefix: p, run: h})
	}
}

// Resolve finds the first route whose prefix starts line.
func (d *Dispatcher) Resolve(line string) (h Handler, prefix, rest string, ok bool) {
	for _, r := range d.routes {
		if after, found := strings.CutPrefix(line, r.prefix); found {
			return r.run, r.prefix, after, true
		}
	}
	return nil, "", "", false
}

// prefixes lists the registered command prefixes in matching order.
func (d *Dispatcher) prefixes() []string {
	out := make([]string, 0, len(d.routes))
	for _, r := range d.routes {
		out = append(out, r.prefix)
	}
	return out
}

var exitWords = []string{config.CmdExit, config.CmdQuit, config.CmdQ}

// IsExit reports whether the whole line asks to leave.
func IsExit(line string) bool {
	return slices.Contains(exitWords, strings.TrimSpace(line))
}
