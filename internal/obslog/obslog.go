// Package obslog adapts the logiface/stumpy structured logging stack
// (SPEC_FULL.md §10) for parkv's connection, session, and table lifecycle
// events. It never panics or calls os.Exit — a session's failure to log
// must never be allowed to affect the session itself.
package obslog

import (
	"io"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is a thin, concern-specific wrapper around a
// logiface.Logger[*stumpy.Event], exposing the handful of events parkv
// needs rather than the full logiface builder surface to every caller.
type Logger struct {
	l *logiface.Logger[*stumpy.Event]
}

// New constructs a Logger writing newline-delimited JSON to w. verbose
// raises the level to debug; otherwise only info-and-above is emitted.
func New(w io.Writer, verbose bool) *Logger {
	level := logiface.LevelInformational
	if verbose {
		level = logiface.LevelDebug
	}
	return &Logger{
		l: stumpy.L.New(
			stumpy.L.WithStumpy(stumpy.WithWriter(w)),
			logiface.WithLevel[*stumpy.Event](level),
		),
	}
}

// Discard returns a Logger that writes nothing, for use in tests that don't
// care about log output.
func Discard() *Logger {
	return New(io.Discard, false)
}

func (l *Logger) ListenerStarted(addr string) {
	l.l.Info().Str(`addr`, addr).Log(`listener started`)
}

func (l *Logger) ListenerStopped() {
	l.l.Info().Log(`listener stopped`)
}

func (l *Logger) ConnRejected(remoteAddr string) {
	l.l.Warning().Str(`remote_addr`, remoteAddr).Log(`connection rejected: admission limit exceeded`)
}

func (l *Logger) ConnAccepted(remoteAddr string) {
	l.l.Debug().Str(`remote_addr`, remoteAddr).Log(`connection accepted`)
}

func (l *Logger) ConnClosed(remoteAddr string) {
	l.l.Debug().Str(`remote_addr`, remoteAddr).Log(`connection closed`)
}

func (l *Logger) LoggedIn(remoteAddr, username string) {
	l.l.Debug().Str(`remote_addr`, remoteAddr).Str(`username`, username).Log(`login accepted`)
}

func (l *Logger) ProtocolError(remoteAddr string, err error) {
	l.l.Warning().Str(`remote_addr`, remoteAddr).Err(err).Log(`protocol error, closing connection`)
}

func (l *Logger) TransactionRolledBack(remoteAddr string, err error) {
	l.l.Warning().Str(`remote_addr`, remoteAddr).Err(err).Log(`transaction rolled back`)
}

func (l *Logger) ConnIOError(remoteAddr string, err error) {
	l.l.Err().Str(`remote_addr`, remoteAddr).Err(err).Log(`connection I/O error`)
}

func (l *Logger) TableCreated(name string) {
	l.l.Debug().Str(`table`, name).Log(`table created`)
}
