// Command get_value logs in, retrieves a key's value from a table, and
// prints it, mirroring original_source/get_value.cpp.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/kvtable/parkv/internal/client"
)

func main() {
	if len(os.Args) != 6 {
		fmt.Fprintf(os.Stderr, "Usage: %s <hostname> <port> <username> <table> <key>\n", os.Args[0])
		os.Exit(1)
	}
	hostname, port, username, table, key := os.Args[1], os.Args[2], os.Args[3], os.Args[4], os.Args[5]

	conn, err := client.Dial(net.JoinHostPort(hostname, port))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: Couldn't connect to server")
		os.Exit(1)
	}

	if err := conn.Login(username); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if err := conn.Get(table, key); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	value, err := conn.Top()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Println(value)

	_ = conn.Bye()
}
