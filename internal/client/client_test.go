package client_test

import (
	"bufio"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvtable/parkv/internal/client"
	"github.com/kvtable/parkv/internal/protocol"
)

// fakeServer accepts exactly one connection and replies to each line with
// the next response in responses, in order.
func fakeServer(t *testing.T, responses ...string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for _, resp := range responses {
			if _, err := r.ReadString('\n'); err != nil {
				return
			}
			if _, err := conn.Write([]byte(resp)); err != nil {
				return
			}
		}
	}()

	return ln.Addr().String()
}

func TestConn_Do_FailedBecomesOperationFailedError(t *testing.T) {
	addr := fakeServer(t, "FAILED \"key not found\"\n")

	conn, err := client.Dial(addr)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Get("t", "k")
	require.Error(t, err)
	require.True(t, errors.Is(err, protocol.ErrOperationFailed))
}

func TestConn_Do_ErrorClosesConnection(t *testing.T) {
	addr := fakeServer(t, "ERROR \"table already exists\"\n")

	conn, err := client.Dial(addr)
	require.NoError(t, err)

	err = conn.Create("t")
	require.Error(t, err)
	require.True(t, errors.Is(err, protocol.ErrProtocol))
	require.ErrorIs(t, conn.Close(), net.ErrClosed, "ERROR must have closed the client connection")
}

func TestConn_Top_ReturnsValueOnData(t *testing.T) {
	addr := fakeServer(t, "DATA 7\n")

	conn, err := client.Dial(addr)
	require.NoError(t, err)
	defer conn.Close()

	v, err := conn.Top()
	require.NoError(t, err)
	require.Equal(t, "7", v)
}
