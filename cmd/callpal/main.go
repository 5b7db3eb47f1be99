// Command callpal runs the CallPal services from the terminal: fetch a
// transcript, extract an intent, or inspect the phone, theme and scenario
// helpers. Every command prints JSON.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
