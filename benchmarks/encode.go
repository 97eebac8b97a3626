package benchmarks

import "encoding/binary"

// Helper functions for building PowerPC programs

// BuildProgram assembles instruction words into a byte slice in the given
// byte order.
func BuildProgram(order binary.ByteOrder, instrs ...uint32) []byte {
	program := make([]byte, 4*len(instrs))
	for i, inst := range instrs {
		order.PutUint32(program[4*i:], inst)
	}
	return program
}

func encodeD(op, rt, ra uint32, imm int32) uint32 {
	return op<<26 | (rt&31)<<21 | (ra&31)<<16 | uint32(imm)&0xFFFF
}

func encodeX(op, rt, ra, rb, xo uint32) uint32 {
	return op<<26 | (rt&31)<<21 | (ra&31)<<16 | (rb&31)<<11 | xo<<1
}

// EncodeADDI encodes addi rt,ra,simm.
func EncodeADDI(rt, ra uint32, simm int16) uint32 { return encodeD(14, rt, ra, int32(simm)) }

// EncodeADDIS encodes addis rt,ra,simm.
func EncodeADDIS(rt, ra uint32, simm int16) uint32 { return encodeD(15, rt, ra, int32(simm)) }

// EncodeLI encodes li rt,simm.
func EncodeLI(rt uint32, simm int16) uint32 { return EncodeADDI(rt, 0, simm) }

// EncodeLIS encodes lis rt,imm.
func EncodeLIS(rt uint32, imm uint16) uint32 { return EncodeADDIS(rt, 0, int16(imm)) }

// EncodeORI encodes ori ra,rs,uimm.
func EncodeORI(ra, rs uint32, uimm uint16) uint32 { return encodeD(24, rs, ra, int32(uimm)) }

// EncodeADD encodes add rt,ra,rb.
func EncodeADD(rt, ra, rb uint32) uint32 { return encodeX(31, rt, ra, rb, 266) }

// EncodeSUBF encodes subf rt,ra,rb.
func EncodeSUBF(rt, ra, rb uint32) uint32 { return encodeX(31, rt, ra, rb, 40) }

// EncodeMULLW encodes mullw rt,ra,rb.
func EncodeMULLW(rt, ra, rb uint32) uint32 { return encodeX(31, rt, ra, rb, 235) }

// EncodeMR encodes mr ra,rs.
func EncodeMR(ra, rs uint32) uint32 { return encodeX(31, rs, ra, rs, 444) }

// EncodeRLWINM encodes rlwinm ra,rs,sh,mb,me.
func EncodeRLWINM(ra, rs, sh, mb, me uint32) uint32 {
	return 21<<26 | (rs&31)<<21 | (ra&31)<<16 | (sh&31)<<11 | (mb&31)<<6 | (me&31)<<1
}

// EncodeCMPWI encodes cmpwi crf,ra,simm.
func EncodeCMPWI(crf, ra uint32, simm int16) uint32 {
	return encodeD(11, (crf&7)<<2, ra, int32(simm))
}

// EncodeCMPW encodes cmpw crf,ra,rb.
func EncodeCMPW(crf, ra, rb uint32) uint32 { return encodeX(31, (crf&7)<<2, ra, rb, 0) }

// EncodeB encodes b with a byte displacement.
func EncodeB(disp int32) uint32 { return 18<<26 | uint32(disp)&0x03FFFFFC }

// EncodeBL encodes bl with a byte displacement.
func EncodeBL(disp int32) uint32 { return EncodeB(disp) | 1 }

// EncodeBC encodes bc bo,bi with a byte displacement.
func EncodeBC(bo, bi uint32, disp int32) uint32 {
	return 16<<26 | (bo&31)<<21 | (bi&31)<<16 | uint32(disp)&0xFFFC
}

// Branch conditions on cr0.
const (
	boFalse  = 4
	boTrue   = 12
	boDNZ    = 16
	biLT     = 0
	biGT     = 1
	biEQ     = 2
	sprLR    = 8
	sprCTR   = 9
	xoMFSPR  = 339
	xoMTSPR  = 467
	xoBCLR   = 16
	xoBCCTR  = 528
	boAlways = 20
)

// EncodeBLT encodes blt cr0 with a byte displacement.
func EncodeBLT(disp int32) uint32 { return EncodeBC(boTrue, biLT, disp) }

// EncodeBGT encodes bgt cr0 with a byte displacement.
func EncodeBGT(disp int32) uint32 { return EncodeBC(boTrue, biGT, disp) }

// EncodeBEQ encodes beq cr0 with a byte displacement.
func EncodeBEQ(disp int32) uint32 { return EncodeBC(boTrue, biEQ, disp) }

// EncodeBNE encodes bne cr0 with a byte displacement.
func EncodeBNE(disp int32) uint32 { return EncodeBC(boFalse, biEQ, disp) }

// EncodeBDNZ encodes bdnz with a byte displacement.
func EncodeBDNZ(disp int32) uint32 { return EncodeBC(boDNZ, 0, disp) }

// EncodeBLR encodes blr.
func EncodeBLR() uint32 { return 19<<26 | boAlways<<21 | xoBCLR<<1 }

// EncodeBCTR encodes bctr.
func EncodeBCTR() uint32 { return 19<<26 | boAlways<<21 | xoBCCTR<<1 }

// EncodeBCTRL encodes bctrl.
func EncodeBCTRL() uint32 { return EncodeBCTR() | 1 }

func encodeSPR(spr uint32) uint32 {
	return ((spr&0x1f)<<5 | spr>>5) << 11
}

// EncodeMTCTR encodes mtctr rs.
func EncodeMTCTR(rs uint32) uint32 { return 31<<26 | (rs&31)<<21 | encodeSPR(sprCTR) | xoMTSPR<<1 }

// EncodeMTLR encodes mtlr rs.
func EncodeMTLR(rs uint32) uint32 { return 31<<26 | (rs&31)<<21 | encodeSPR(sprLR) | xoMTSPR<<1 }

// EncodeMFLR encodes mflr rt.
func EncodeMFLR(rt uint32) uint32 { return 31<<26 | (rt&31)<<21 | encodeSPR(sprLR) | xoMFSPR<<1 }

// EncodeLWZ encodes lwz rt,d(ra).
func EncodeLWZ(rt, ra uint32, d int16) uint32 { return encodeD(32, rt, ra, int32(d)) }

// EncodeLWZU encodes lwzu rt,d(ra).
func EncodeLWZU(rt, ra uint32, d int16) uint32 { return encodeD(33, rt, ra, int32(d)) }

// EncodeSTW encodes stw rs,d(ra).
func EncodeSTW(rs, ra uint32, d int16) uint32 { return encodeD(36, rs, ra, int32(d)) }

// EncodeSTWU encodes stwu rs,d(ra).
func EncodeSTWU(rs, ra uint32, d int16) uint32 { return encodeD(37, rs, ra, int32(d)) }

// EncodeLFD encodes lfd frt,d(ra).
func EncodeLFD(frt, ra uint32, d int16) uint32 { return encodeD(50, frt, ra, int32(d)) }

// EncodeSTFD encodes stfd frs,d(ra).
func EncodeSTFD(frs, ra uint32, d int16) uint32 { return encodeD(54, frs, ra, int32(d)) }

// EncodeFADD encodes fadd frt,fra,frb.
func EncodeFADD(frt, fra, frb uint32) uint32 { return encodeX(63, frt, fra, frb, 21) }

// EncodeFMUL encodes fmul frt,fra,frc.
func EncodeFMUL(frt, fra, frc uint32) uint32 {
	return 63<<26 | (frt&31)<<21 | (fra&31)<<16 | (frc&31)<<6 | 25<<1
}

// EncodeFCTIWZ encodes fctiwz frt,frb.
func EncodeFCTIWZ(frt, frb uint32) uint32 { return encodeX(63, frt, 0, frb, 15) }

// EncodeSTFIWX encodes stfiwx frs,ra,rb.
func EncodeSTFIWX(frs, ra, rb uint32) uint32 { return encodeX(31, frs, ra, rb, 983) }

// EncodeSC encodes sc.
func EncodeSC() uint32 { return 17<<26 | 2 }
