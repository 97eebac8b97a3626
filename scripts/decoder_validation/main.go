// Validate decoder and translator allocation behaviour on the benchmark
// programs.
package main

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/ppcdbt/benchmarks"
	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/emu"
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/translator"
)

func main() {
	var words []uint32
	for _, b := range benchmarks.GetMicrobenchmarks() {
		words = append(words, b.Program...)
	}

	decoder := insts.NewDecoder()
	for _, w := range words {
		if decoder.Decode(w).Op == insts.OpUnknown {
			fmt.Printf("⚠️  undecodable benchmark word 0x%08x\n", w)
		}
	}

	measure("decode", 100000, func() {
		for _, w := range words {
			decoder.Decode(w)
		}
	}, len(words))

	memory := emu.NewMemory()
	memory.LoadProgram(benchmarks.ProgramAddr, benchmarks.BuildProgram(binary.BigEndian, words...))
	tr := translator.New(memory, config.DefaultOptions())

	measure("translate", 1000, func() {
		tr.MustTranslate(benchmarks.ProgramAddr)
	}, 1)
}

// measure runs fn iterations times and reports time and allocations per
// operation, counting ops operations per call.
func measure(name string, iterations int, fn func(), ops int) {
	for i := 0; i < iterations/100; i++ {
		fn()
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	total := iterations * ops
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("%s validation results:\n", name)
	fmt.Printf("========================================\n")
	fmt.Printf("Total operations: %d\n", total)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Operations per second: %.0f\n", float64(total)/elapsed.Seconds())
	fmt.Printf("Allocations per operation: %.3f\n", float64(allocations)/float64(total))
	fmt.Printf("Bytes per operation: %.1f\n\n", float64(allocatedBytes)/float64(total))
}
