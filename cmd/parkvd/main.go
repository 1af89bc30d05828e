// Command parkvd is the parkv listener: it binds one TCP port and serves the
// wire protocol described in internal/protocol, spawning one session per
// connection. Grounded on original_source/server.cpp's accept loop and main.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/kvtable/parkv/internal/admission"
	"github.com/kvtable/parkv/internal/obslog"
	"github.com/kvtable/parkv/internal/server"
	"github.com/kvtable/parkv/internal/table"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug-level logging")
	admissionMax := flag.Int("admission-rate", admission.DefaultConfig.Max, "maximum connection attempts per remote address per window (0 disables admission control)")
	admissionWindow := flag.Duration("admission-window", admission.DefaultConfig.Window, "sliding window over which admission-rate is enforced")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <port>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	port := flag.Arg(0)

	log := obslog.New(os.Stdout, *verbose)

	ln, err := net.Listen("tcp", net.JoinHostPort("", port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parkvd: bind failed: %v\n", err)
		os.Exit(1)
	}

	registry := table.NewRegistry()
	admit := admission.New(admission.Config{Window: *admissionWindow, Max: *admissionMax})
	srv := server.New(ln, registry, admit, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "parkvd: %v\n", err)
		os.Exit(1)
	}
}
