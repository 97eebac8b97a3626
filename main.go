// Package main provides the entry point for ppcdbt.
// ppcdbt is a dynamic binary translator for 32-bit PowerPC Linux programs.
//
// For the full CLI, use: go run ./cmd/ppcdbt
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ppcdbt - PowerPC dynamic binary translator")
	fmt.Println("")
	fmt.Println("Usage: ppcdbt <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run      Translate and run a PowerPC ELF program")
	fmt.Println("  disasm   Disassemble the executable segments of a program")
	fmt.Println("  trace    Print the IR of one translated trace")
	fmt.Println("  bench    Run the built-in guest microbenchmarks")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ppcdbt --help' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ppcdbt' instead.")
	}
}
