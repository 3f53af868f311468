// Command gymctl is the operator tool for the entry service: it mints and
// inspects entry tokens, mints development sessions and applies migrations.
package main

import (
	"fmt"
	"os"

	"github.com/spec-kit/gym-entry/internal/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
