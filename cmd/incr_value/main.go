// Command incr_value increments a table value by one, optionally as a
// transaction, mirroring original_source/incr_value.cpp's GET/PUSH 1/ADD/SET
// sequence (which depends on SET reading the stack top without popping).
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/kvtable/parkv/internal/client"
)

func main() {
	useTxn := flag.Bool("t", false, "execute the increment as a transaction")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-t] <hostname> <port> <username> <table> <key>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 5 {
		flag.Usage()
		os.Exit(1)
	}
	hostname, port, username, table, key := flag.Arg(0), flag.Arg(1), flag.Arg(2), flag.Arg(3), flag.Arg(4)

	conn, err := client.Dial(net.JoinHostPort(hostname, port))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: Couldn't connect to server")
		os.Exit(1)
	}

	fail := func(err error) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := conn.Login(username); err != nil {
		fail(err)
	}
	if *useTxn {
		if err := conn.Begin(); err != nil {
			fail(err)
		}
	}
	if err := conn.Get(table, key); err != nil {
		fail(err)
	}
	if err := conn.Push("1"); err != nil {
		fail(err)
	}
	if err := conn.Add(); err != nil {
		fail(err)
	}
	if err := conn.Set(table, key); err != nil {
		fail(err)
	}
	if *useTxn {
		if err := conn.Commit(); err != nil {
			fail(err)
		}
	}

	_ = conn.Bye()
}
