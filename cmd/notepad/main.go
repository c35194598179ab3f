package main

import (
	"fmt"
	"os"
)

var osExit = os.Exit

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	exit(1)
}

// exit flushes the log file before leaving; PersistentPostRun is skipped on this path.
func exit(code int) {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
	osExit(code)
}
