package benchmarks

import (
	"math"

	"github.com/sarchlab/ppcdbt/emu"
)

// Register numbers used by the programs below.
const (
	r0 = iota
	r1
	r2
	r3
	r4
	r5
	r6
	r7
	r8
	r9
)

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// stresses a different part of trace formation.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		loopSum(),
		fibonacci(),
		functionCalls(),
		indirectCalls(),
		memorySequential(),
		bitCount(),
		floatingPoint(),
		branchChain(),
	}
}

// GetCoreBenchmarks returns a minimal set of benchmarks for quick
// validation: a counted loop, calls and returns, and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSum(),
		functionCalls(),
		branchChain(),
	}
}

// exit emits li r0,1; sc.
func exit() []uint32 {
	return []uint32{EncodeLI(r0, 1), EncodeSC()}
}

// 1. Loop Sum - counted loop on CTR
func loopSum() Benchmark {
	return Benchmark{
		Name:        "loop_sum",
		Description: "Sum 1..100 with bdnz - a single hot trace",
		Program: append([]uint32{
			EncodeLI(r3, 0),
			EncodeLI(r4, 100),
			EncodeMTCTR(r4),
			EncodeADD(r3, r3, r4), // 3: loop
			EncodeADDI(r4, r4, -1),
			EncodeBDNZ(-8), // -> 3
		}, exit()...),
		ExpectedExit: 5050,
	}
}

// 2. Fibonacci - compare and conditional branch
func fibonacci() Benchmark {
	return Benchmark{
		Name:        "fibonacci",
		Description: "Iterative fib(20) with cmpwi/blt",
		Program: append([]uint32{
			EncodeLI(r4, 0), // a
			EncodeLI(r5, 1), // b
			EncodeLI(r6, 0), // i
			EncodeADD(r7, r4, r5), // 3: loop
			EncodeMR(r4, r5),
			EncodeMR(r5, r7),
			EncodeADDI(r6, r6, 1),
			EncodeCMPWI(0, r6, 20),
			EncodeBLT(-20), // -> 3
			EncodeMR(r3, r4),
		}, exit()...),
		ExpectedExit: 6765,
	}
}

// 3. Function Calls - bl/blr pairs
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "10 calls to a leaf function - call and return sites",
		Program: []uint32{
			EncodeLI(r3, 0),
			EncodeLI(r5, 10),
			EncodeMTCTR(r5),
			EncodeBL(16),  // 3: -> 7
			EncodeBDNZ(-4), // -> 3
			EncodeLI(r0, 1),
			EncodeSC(),
			EncodeADDI(r3, r3, 1), // 7: leaf
			EncodeBLR(),
		},
		ExpectedExit: 10,
	}
}

// 4. Indirect Calls - calls through CTR
func indirectCalls() Benchmark {
	const leaf = ProgramAddr + 10*4
	return Benchmark{
		Name:        "indirect_calls",
		Description: "8 calls through a function pointer with bctrl",
		Program: []uint32{
			EncodeLI(r3, 0),
			EncodeLI(r7, 0),
			EncodeLI(r6, leaf),
			EncodeMTCTR(r6), // 3: loop
			EncodeBCTRL(),
			EncodeADDI(r7, r7, 1),
			EncodeCMPWI(0, r7, 8),
			EncodeBLT(-16), // -> 3
			EncodeLI(r0, 1),
			EncodeSC(),
			EncodeADDI(r3, r3, 3), // 10: leaf
			EncodeBLR(),
		},
		ExpectedExit: 24,
	}
}

// 5. Memory Sequential - update-form loads and stores
func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "Store 1..16 with stwu, then sum them with lwzu",
		Program: append([]uint32{
			EncodeLIS(r9, 2),
			EncodeADDI(r9, r9, -4),
			EncodeLI(r4, 1),
			EncodeLI(r5, 16),
			EncodeMTCTR(r5),
			EncodeSTWU(r4, r9, 4), // 5: store loop
			EncodeADDI(r4, r4, 1),
			EncodeBDNZ(-8), // -> 5
			EncodeLIS(r9, 2),
			EncodeADDI(r9, r9, -4),
			EncodeLI(r3, 0),
			EncodeMTCTR(r5),
			EncodeLWZU(r6, r9, 4), // 12: load loop
			EncodeADD(r3, r3, r6),
			EncodeBDNZ(-8), // -> 12
		}, exit()...),
		ExpectedExit: 136,
	}
}

// 6. Bit Count - rotate and mask
func bitCount() Benchmark {
	return Benchmark{
		Name:        "bit_count",
		Description: "Population count of 0xF0F0F0F0 with rlwinm",
		Program: append([]uint32{
			EncodeLIS(r4, 0xF0F0),
			EncodeORI(r4, r4, 0xF0F0),
			EncodeLI(r3, 0),
			EncodeLI(r5, 32),
			EncodeMTCTR(r5),
			EncodeRLWINM(r6, r4, 0, 31, 31), // 5: loop
			EncodeADD(r3, r3, r6),
			EncodeRLWINM(r4, r4, 31, 1, 31),
			EncodeBDNZ(-12), // -> 5
		}, exit()...),
		ExpectedExit: 16,
	}
}

// 7. Floating Point - FPR loads, arithmetic and conversion
func floatingPoint() Benchmark {
	const data = 0x30000
	return Benchmark{
		Name:        "floating_point",
		Description: "1.5*4.0+0.5 truncated to an integer with fctiwz",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			memory.Write64(data, math.Float64bits(1.5))
			memory.Write64(data+8, math.Float64bits(4.0))
			memory.Write64(data+16, math.Float64bits(0.5))
		},
		Program: append([]uint32{
			EncodeLIS(r9, data>>16),
			EncodeLFD(1, r9, 0),
			EncodeLFD(2, r9, 8),
			EncodeLFD(3, r9, 16),
			EncodeFMUL(4, 1, 2),
			EncodeFADD(4, 4, 3),
			EncodeFCTIWZ(5, 4),
			EncodeSTFIWX(5, 0, r9),
			EncodeLWZ(r3, r9, 0),
		}, exit()...),
		ExpectedExit: 6,
	}
}

// 8. Branch Chain - unconditional branches inside one trace
func branchChain() Benchmark {
	return Benchmark{
		Name:        "branch_chain",
		Description: "Forward branches over dead code - followed during translation",
		Program: append([]uint32{
			EncodeLI(r3, 0),
			EncodeB(8), // -> 3
			EncodeADDI(r3, r3, 100),
			EncodeADDI(r3, r3, 1), // 3
			EncodeB(8), // -> 6
			EncodeADDI(r3, r3, 100),
			EncodeADDI(r3, r3, 2), // 6
			EncodeCMPWI(0, r3, 3),
			EncodeBEQ(8), // -> 10
			EncodeLI(r3, 99),
		}, exit()...),
		ExpectedExit: 3,
	}
}
