// Package server implements the listener/dispatcher boundary (spec.md §2.7):
// it accepts connections, applies admission control, and spawns one session
// per connection. Grounded on original_source/server.cpp's accept loop and,
// for graceful shutdown of the accept loop itself, on
// sqldef-sqldef/database/concurrent.go's errgroup.Group usage.
package server

import (
	"context"
	"errors"
	"net"

	"github.com/kvtable/parkv/internal/admission"
	"github.com/kvtable/parkv/internal/obslog"
	"github.com/kvtable/parkv/internal/protocol"
	"github.com/kvtable/parkv/internal/session"
	"github.com/kvtable/parkv/internal/table"
	"golang.org/x/sync/errgroup"
)

// Server binds one TCP listener and runs one session goroutine per accepted
// connection, all sharing a single table registry.
type Server struct {
	ln       net.Listener
	registry *table.Registry
	admit    *admission.Limiter
	log      *obslog.Logger
}

// New wraps an already-bound listener. admit may be nil to disable
// connection admission control.
func New(ln net.Listener, registry *table.Registry, admit *admission.Limiter, log *obslog.Logger) *Server {
	if log == nil {
		log = obslog.Discard()
	}
	return &Server{ln: ln, registry: registry, admit: admit, log: log}
}

// Serve accepts connections until ctx is cancelled or the listener fails.
// Cancelling ctx closes the listener, which unblocks Accept with an error
// Serve treats as a clean shutdown; it then waits for in-flight sessions to
// finish before returning.
func (s *Server) Serve(ctx context.Context) error {
	s.log.ListenerStarted(s.ln.Addr().String())
	defer s.log.ListenerStopped()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-ctx.Done()
		return s.ln.Close()
	})

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		if s.admit != nil && !s.admit.Allow(remoteHost(conn)) {
			s.log.ConnRejected(conn.RemoteAddr().String())
			_ = conn.Close()
			continue
		}

		eg.Go(func() error {
			s.handle(conn)
			return nil
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// remoteHost strips the ephemeral port from a connection's remote address,
// since admission control throttles by address, not by the fresh port every
// new connection arrives on.
func remoteHost(conn net.Conn) string {
	addr := conn.RemoteAddr().String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// handle runs one session to completion. Session-level errors are logged,
// never propagated — one misbehaving connection must never take down the
// listener or any other session.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	remoteAddr := conn.RemoteAddr().String()
	s.log.ConnAccepted(remoteAddr)

	codec := protocol.NewCodec(conn, conn)
	sess := session.New(codec, s.registry, s.log, remoteAddr)
	if err := sess.Run(); err != nil {
		s.log.ConnIOError(remoteAddr, err)
	}
}
