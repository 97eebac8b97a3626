package insts

// Bits returns the unsigned integer formed by bits n..m (inclusive) of
// word, using the PowerPC bit numbering where bit 0 is the most
// significant bit. Bits(word, 0, 5) is the primary opcode and
// Bits(word, 0, 31) is the word itself. A reversed range yields 0.
func Bits(word uint32, n, m uint) uint32 {
	return (word >> (31 - m)) & (0xFFFFFFFF >> (31 - (m - n)))
}

// SignExtend sign-extends the low width bits of value.
func SignExtend(value uint32, width uint) int32 {
	shift := 32 - width
	return int32(value<<shift) >> shift
}
