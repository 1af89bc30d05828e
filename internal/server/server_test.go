package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvtable/parkv/internal/admission"
	"github.com/kvtable/parkv/internal/client"
	"github.com/kvtable/parkv/internal/obslog"
	"github.com/kvtable/parkv/internal/server"
	"github.com/kvtable/parkv/internal/table"
)

// startServer binds a loopback listener on an OS-assigned port and serves it
// for the lifetime of the test.
func startServer(t *testing.T, admit *admission.Limiter) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	registry := table.NewRegistry()
	srv := server.New(ln, registry, admit, obslog.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("server did not shut down after context cancellation")
		}
	})

	return ln.Addr().String()
}

func TestServer_EndToEnd_AutoCommitSetGet(t *testing.T) {
	addr := startServer(t, nil)

	conn, err := client.Dial(addr)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Login("alice"))
	require.NoError(t, conn.Create("t"))
	require.NoError(t, conn.Push("7"))
	require.NoError(t, conn.Set("t", "k"))
	require.NoError(t, conn.Get("t", "k"))

	v, err := conn.Top()
	require.NoError(t, err)
	assert.Equal(t, "7", v)

	require.NoError(t, conn.Bye())
}

func TestServer_EndToEnd_TransactionCommitIsVisibleToNewConnection(t *testing.T) {
	addr := startServer(t, nil)

	first, err := client.Dial(addr)
	require.NoError(t, err)
	require.NoError(t, first.Login("bob"))
	require.NoError(t, first.Create("t"))
	require.NoError(t, first.Push("10"))
	require.NoError(t, first.Set("t", "k"))
	require.NoError(t, first.Begin())
	require.NoError(t, first.Get("t", "k"))
	require.NoError(t, first.Push("1"))
	require.NoError(t, first.Add())
	require.NoError(t, first.Set("t", "k"))
	require.NoError(t, first.Commit())
	require.NoError(t, first.Bye())

	second, err := client.Dial(addr)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Login("carol"))
	require.NoError(t, second.Get("t", "k"))
	v, err := second.Top()
	require.NoError(t, err)
	assert.Equal(t, "11", v)
}

func TestServer_AdmissionControlRejectsOverLimit(t *testing.T) {
	addr := startServer(t, admission.New(admission.Config{Window: time.Minute, Max: 1}))

	first, err := client.Dial(addr)
	require.NoError(t, err)
	defer first.Close()
	require.NoError(t, first.Login("a"))

	second, err := client.Dial(addr)
	require.NoError(t, err)
	defer second.Close()

	// The listener accepted and then immediately closed the connection; any
	// read on it should fail rather than hang.
	err = second.Login("b")
	assert.Error(t, err)
}
