// Command ppcdbt runs, disassembles and translates 32-bit PowerPC Linux
// programs.
//
// Usage:
//
//	ppcdbt run [flags] <program.elf> [args...]
//	ppcdbt disasm [flags] <program.elf>
//	ppcdbt trace [flags] <program.elf>
//	ppcdbt bench [flags]
//
// Translation options come from the file named by --config, then from the
// PPCDBT_* environment variables, then from the command line.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exitError carries a guest exit status out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
