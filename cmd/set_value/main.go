// Command set_value logs in, pushes a value, and sets it in a table under a
// key, mirroring original_source/set_value.cpp.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/kvtable/parkv/internal/client"
)

func main() {
	if len(os.Args) != 7 {
		fmt.Fprintf(os.Stderr, "Usage: %s <hostname> <port> <username> <table> <key> <value>\n", os.Args[0])
		os.Exit(1)
	}
	hostname, port, username := os.Args[1], os.Args[2], os.Args[3]
	table, key, value := os.Args[4], os.Args[5], os.Args[6]

	conn, err := client.Dial(net.JoinHostPort(hostname, port))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: Couldn't connect to server")
		os.Exit(1)
	}

	if err := conn.Login(username); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := conn.Push(value); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := conn.Set(table, key); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	_ = conn.Bye()
}
