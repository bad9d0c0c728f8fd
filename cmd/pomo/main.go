// Package main provides the pomo command, which keeps a timer website running
// through alternating work and break sessions in a real browser.
package main

import (
	"fmt"
	"os"
)

func main() {
	code, err := newRootCmd().execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}
