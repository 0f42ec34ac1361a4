package venv

import (
	"os"
	"strings"
	"sync/atomic"
)

// Session represents a scoped activation of a virtual environment. It carries
// the environment variables an activated shell would see without mutating the
// process environment, so release is guaranteed simply by dropping the
// session. Release exists for symmetry and for callers that want to assert
// the activation window has closed.
type Session struct {
	env      *Environment
	environ  []string
	released atomic.Bool
}

func newSession(e *Environment) *Session {
	return &Session{env: e, environ: activatedEnviron(e)}
}

// Environ returns a copy of the process environment with the venv activated:
// VIRTUAL_ENV set, the venv bin directory leading PATH, and PYTHONHOME
// removed. Returns nil after the session has been released.
func (s *Session) Environ() []string {
	if s.released.Load() {
		return nil
	}
	out := make([]string, len(s.environ))
	copy(out, s.environ)
	return out
}

// Environment returns the venv this session activates.
func (s *Session) Environment() *Environment { return s.env }

// Release deactivates the session. Safe to call more than once.
func (s *Session) Release() {
	s.released.Store(true)
}

// Released reports whether Release has been called.
func (s *Session) Released() bool {
	return s.released.Load()
}

func activatedEnviron(e *Environment) []string {
	base := os.Environ()
	out := make([]string, 0, len(base)+2)
	pathSet := false
	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(key, "PYTHONHOME"):
			// A stray PYTHONHOME overrides the venv interpreter's stdlib
			// resolution; activate scripts unset it too.
			continue
		case key == "PATH":
			out = append(out, "PATH="+e.binDir()+string(os.PathListSeparator)+value)
			pathSet = true
		case key == "VIRTUAL_ENV":
			continue
		default:
			out = append(out, kv)
		}
	}
	if !pathSet {
		out = append(out, "PATH="+e.binDir())
	}
	out = append(out, "VIRTUAL_ENV="+e.root)
	return out
}
