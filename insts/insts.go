// Package insts provides PowerPC instruction definitions and decoding.
//
// This package implements the opcode dispatch of 32-bit PowerPC machine
// code. Decoding is a chain of table lookups: the 6-bit primary opcode
// selects an entry from the primary table, and the extended primary
// opcodes (19, 31, 59 and 63) delegate to secondary tables indexed by the
// 10-bit extended opcode in bits 21-30.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x38600064) // addi r3,0,100
//	fmt.Printf("Op: %v, RT: %d, RA: %d, D: %d\n", inst.Op, inst.D.RT, inst.D.RA, inst.D.D)
package insts
