// Package client implements the request/response half of the wire protocol
// for the CLI front-ends (spec.md §6 external interfaces), grounded on
// original_source/client_helper.cpp's per-command send/read/check_error
// sequence. Each method here is one round trip: encode a request, decode the
// response, and turn FAILED/ERROR into a Go error the caller can report.
package client

import (
	"fmt"
	"net"

	"github.com/kvtable/parkv/internal/protocol"
)

// Conn is a single client connection to a parkv listener.
type Conn struct {
	conn  net.Conn
	codec *protocol.Codec
}

// Dial connects to addr and wraps the connection in the wire codec.
func Dial(addr string) (*Conn, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: nc, codec: protocol.NewCodec(nc, nc)}, nil
}

// Close closes the underlying connection without sending BYE. Prefer Bye for
// a clean shutdown.
func (c *Conn) Close() error { return c.conn.Close() }

// roundTrip sends req and returns the decoded response.
func (c *Conn) roundTrip(req protocol.Message) (protocol.Message, error) {
	if err := c.codec.Encode(req); err != nil {
		return protocol.Message{}, err
	}
	return c.codec.Decode()
}

// do performs a round trip expecting a bare OK, mirroring check_error: FAILED
// and ERROR both become a Go error, and ERROR additionally closes the
// connection, since the server has already closed its end.
func (c *Conn) do(req protocol.Message) error {
	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	switch resp.Kind {
	case protocol.KindOK:
		return nil
	case protocol.KindFailed:
		return fmt.Errorf("%w: %s", protocol.ErrOperationFailed, resp.Args[0])
	case protocol.KindError:
		_ = c.conn.Close()
		return fmt.Errorf("%w: %s", protocol.ErrProtocol, resp.Args[0])
	default:
		return fmt.Errorf("unexpected response %s, want OK", resp.Kind)
	}
}

func (c *Conn) Login(username string) error        { return c.do(protocol.Login(username)) }
func (c *Conn) Create(table string) error           { return c.do(protocol.Create(table)) }
func (c *Conn) Push(value string) error             { return c.do(protocol.Push(value)) }
func (c *Conn) Pop() error                          { return c.do(protocol.Pop()) }
func (c *Conn) Set(table, key string) error         { return c.do(protocol.Set(table, key)) }
func (c *Conn) Get(table, key string) error         { return c.do(protocol.Get(table, key)) }
func (c *Conn) Begin() error                        { return c.do(protocol.Begin()) }
func (c *Conn) Commit() error                       { return c.do(protocol.Commit()) }
func (c *Conn) Add() error                          { return c.do(protocol.Add()) }
func (c *Conn) Sub() error                          { return c.do(protocol.Sub()) }
func (c *Conn) Mul() error                          { return c.do(protocol.Mul()) }
func (c *Conn) Div() error                          { return c.do(protocol.Div()) }

// Bye sends BYE, expects OK, and closes the connection regardless of the
// result — there is nothing further to do with this connection either way.
func (c *Conn) Bye() error {
	err := c.do(protocol.Bye())
	_ = c.conn.Close()
	return err
}

// Top retrieves the current operand stack top, mirroring check_error_top:
// DATA is success, OK is an unexpected-response error (TOP never replies
// OK), and FAILED/ERROR behave as in do.
func (c *Conn) Top() (string, error) {
	resp, err := c.roundTrip(protocol.Top())
	if err != nil {
		return "", err
	}
	switch resp.Kind {
	case protocol.KindData:
		return resp.Args[0], nil
	case protocol.KindFailed:
		return "", fmt.Errorf("%w: %s", protocol.ErrOperationFailed, resp.Args[0])
	case protocol.KindError:
		_ = c.conn.Close()
		return "", fmt.Errorf("%w: %s", protocol.ErrProtocol, resp.Args[0])
	default:
		return "", fmt.Errorf("unexpected response %s, want DATA", resp.Kind)
	}
}
