package insts

// Op identifies a decoded PowerPC operation.
type Op uint16

// Operations, in primary then extended opcode order.
const (
	OpUnknown Op = iota
	OpTDI
	OpTWI
	OpMULLI
	OpSUBFIC
	OpCMPLI
	OpCMPI
	OpADDIC
	OpADDICDot
	OpADDI
	OpADDIS
	OpORI
	OpORIS
	OpXORI
	OpXORIS
	OpANDIDot
	OpANDISDot
	OpLWZ
	OpLWZU
	OpLBZ
	OpLBZU
	OpSTW
	OpSTWU
	OpSTB
	OpSTBU
	OpLHZ
	OpLHZU
	OpLHA
	OpLHAU
	OpSTH
	OpSTHU
	OpLMW
	OpSTMW
	OpLFS
	OpLFSU
	OpLFD
	OpLFDU
	OpSTFS
	OpSTFSU
	OpSTFD
	OpSTFDU
	OpVX
	OpBC
	OpSC
	OpB
	OpRLWIMI
	OpRLWINM
	OpRLWNM
	OpMCRF
	OpBCLR
	OpRFID
	OpCRNOR
	OpRFI
	OpCRANDC
	OpISYNC
	OpCRXOR
	OpCRNAND
	OpCRAND
	OpCREQV
	OpCRORC
	OpCROR
	OpBCCTR
	OpCMP
	OpTW
	OpSUBFC
	OpADDC
	OpMULHWU
	OpMFCR
	OpLWARX
	OpLWZX
	OpSLW
	OpCNTLZW
	OpAND
	OpCMPL
	OpSUBF
	OpDCBST
	OpLWZUX
	OpANDC
	OpMULHW
	OpMFMSR
	OpDCBF
	OpLBZX
	OpNEG
	OpLBZUX
	OpNOR
	OpSUBFE
	OpADDE
	OpMTCRF
	OpMTMSR
	OpSTWCXDot
	OpSTWX
	OpSTWUX
	OpSUBFZE
	OpADDZE
	OpMTSR
	OpSTBX
	OpSUBFME
	OpADDME
	OpMULLW
	OpDCBTST
	OpSTBUX
	OpADD
	OpDCBT
	OpLHZX
	OpEQV
	OpTLBIE
	OpLHZUX
	OpXOR
	OpMFSPR
	OpLHAX
	OpMFTB
	OpLHAUX
	OpSTHX
	OpORC
	OpSTHUX
	OpOR
	OpDIVWU
	OpMTSPR
	OpDCBI
	OpNAND
	OpDIVW
	OpMCRXR
	OpSUBFCO
	OpADDCO
	OpLSWX
	OpLWBRX
	OpLFSX
	OpSRW
	OpSUBFO
	OpLFSUX
	OpMFSR
	OpLSWI
	OpSYNC
	OpLFDX
	OpNEGO
	OpLFDUX
	OpSUBFEO
	OpADDEO
	OpSTWBRX
	OpSTFSX
	OpSTFSUX
	OpSUBFZEO
	OpADDZEO
	OpSTSWI
	OpSTFDX
	OpSUBFMEO
	OpADDMEO
	OpMULLWO
	OpSTFDUX
	OpADDO
	OpLHBRX
	OpSRAW
	OpSRAWI
	OpEIEIO
	OpSTHBRX
	OpEXTSH
	OpEXTSB
	OpDIVWUO
	OpICBI
	OpSTFIWX
	OpDIVWO
	OpDCBZ
	OpFDIVS
	OpFSUBS
	OpFADDS
	OpFSQRTS
	OpFRES
	OpFMULS
	OpFMSUBS
	OpFMADDS
	OpFNMSUBS
	OpFNMADDS
	OpFDIV
	OpFSUB
	OpFADD
	OpFSQRT
	OpFSEL
	OpFMUL
	OpFRSQRTE
	OpFMSUB
	OpFMADD
	OpFNMSUB
	OpFNMADD
	OpFCMPU
	OpFRSP
	OpFCTIW
	OpFCTIWZ
	OpFCMPO
	OpMTFSB1
	OpFNEG
	OpMCRFS
	OpMTFSB0
	OpFMR
	OpMTFSFI
	OpFNABS
	OpFABS
	OpMFFS
	OpMTFSF

	// NumOps is the number of defined operations.
	NumOps
)

var opNames = [...]string{
	OpUnknown:  "unknown",
	OpTDI:      "tdi",
	OpTWI:      "twi",
	OpMULLI:    "mulli",
	OpSUBFIC:   "subfic",
	OpCMPLI:    "cmpli",
	OpCMPI:     "cmpi",
	OpADDIC:    "addic",
	OpADDICDot: "addic.",
	OpADDI:     "addi",
	OpADDIS:    "addis",
	OpORI:      "ori",
	OpORIS:     "oris",
	OpXORI:     "xori",
	OpXORIS:    "xoris",
	OpANDIDot:  "andi.",
	OpANDISDot: "andis.",
	OpLWZ:      "lwz",
	OpLWZU:     "lwzu",
	OpLBZ:      "lbz",
	OpLBZU:     "lbzu",
	OpSTW:      "stw",
	OpSTWU:     "stwu",
	OpSTB:      "stb",
	OpSTBU:     "stbu",
	OpLHZ:      "lhz",
	OpLHZU:     "lhzu",
	OpLHA:      "lha",
	OpLHAU:     "lhau",
	OpSTH:      "sth",
	OpSTHU:     "sthu",
	OpLMW:      "lmw",
	OpSTMW:     "stmw",
	OpLFS:      "lfs",
	OpLFSU:     "lfsu",
	OpLFD:      "lfd",
	OpLFDU:     "lfdu",
	OpSTFS:     "stfs",
	OpSTFSU:    "stfsu",
	OpSTFD:     "stfd",
	OpSTFDU:    "stfdu",
	OpVX:       "vx",
	OpBC:       "bc",
	OpSC:       "sc",
	OpB:        "b",
	OpRLWIMI:   "rlwimi",
	OpRLWINM:   "rlwinm",
	OpRLWNM:    "rlwnm",
	OpMCRF:     "mcrf",
	OpBCLR:     "bclr",
	OpRFID:     "rfid",
	OpCRNOR:    "crnor",
	OpRFI:      "rfi",
	OpCRANDC:   "crandc",
	OpISYNC:    "isync",
	OpCRXOR:    "crxor",
	OpCRNAND:   "crnand",
	OpCRAND:    "crand",
	OpCREQV:    "creqv",
	OpCRORC:    "crorc",
	OpCROR:     "cror",
	OpBCCTR:    "bcctr",
	OpCMP:      "cmp",
	OpTW:       "tw",
	OpSUBFC:    "subfc",
	OpADDC:     "addc",
	OpMULHWU:   "mulhwu",
	OpMFCR:     "mfcr",
	OpLWARX:    "lwarx",
	OpLWZX:     "lwzx",
	OpSLW:      "slw",
	OpCNTLZW:   "cntlzw",
	OpAND:      "and",
	OpCMPL:     "cmpl",
	OpSUBF:     "subf",
	OpDCBST:    "dcbst",
	OpLWZUX:    "lwzux",
	OpANDC:     "andc",
	OpMULHW:    "mulhw",
	OpMFMSR:    "mfmsr",
	OpDCBF:     "dcbf",
	OpLBZX:     "lbzx",
	OpNEG:      "neg",
	OpLBZUX:    "lbzux",
	OpNOR:      "nor",
	OpSUBFE:    "subfe",
	OpADDE:     "adde",
	OpMTCRF:    "mtcrf",
	OpMTMSR:    "mtmsr",
	OpSTWCXDot: "stwcx.",
	OpSTWX:     "stwx",
	OpSTWUX:    "stwux",
	OpSUBFZE:   "subfze",
	OpADDZE:    "addze",
	OpMTSR:     "mtsr",
	OpSTBX:     "stbx",
	OpSUBFME:   "subfme",
	OpADDME:    "addme",
	OpMULLW:    "mullw",
	OpDCBTST:   "dcbtst",
	OpSTBUX:    "stbux",
	OpADD:      "add",
	OpDCBT:     "dcbt",
	OpLHZX:     "lhzx",
	OpEQV:      "eqv",
	OpTLBIE:    "tlbie",
	OpLHZUX:    "lhzux",
	OpXOR:      "xor",
	OpMFSPR:    "mfspr",
	OpLHAX:     "lhax",
	OpMFTB:     "mftb",
	OpLHAUX:    "lhaux",
	OpSTHX:     "sthx",
	OpORC:      "orc",
	OpSTHUX:    "sthux",
	OpOR:       "or",
	OpDIVWU:    "divwu",
	OpMTSPR:    "mtspr",
	OpDCBI:     "dcbi",
	OpNAND:     "nand",
	OpDIVW:     "divw",
	OpMCRXR:    "mcrxr",
	OpSUBFCO:   "subfco",
	OpADDCO:    "addco",
	OpLSWX:     "lswx",
	OpLWBRX:    "lwbrx",
	OpLFSX:     "lfsx",
	OpSRW:      "srw",
	OpSUBFO:    "subfo",
	OpLFSUX:    "lfsux",
	OpMFSR:     "mfsr",
	OpLSWI:     "lswi",
	OpSYNC:     "sync",
	OpLFDX:     "lfdx",
	OpNEGO:     "nego",
	OpLFDUX:    "lfdux",
	OpSUBFEO:   "subfeo",
	OpADDEO:    "addeo",
	OpSTWBRX:   "stwbrx",
	OpSTFSX:    "stfsx",
	OpSTFSUX:   "stfsux",
	OpSUBFZEO:  "subfzeo",
	OpADDZEO:   "addzeo",
	OpSTSWI:    "stswi",
	OpSTFDX:    "stfdx",
	OpSUBFMEO:  "subfmeo",
	OpADDMEO:   "addmeo",
	OpMULLWO:   "mullwo",
	OpSTFDUX:   "stfdux",
	OpADDO:     "addo",
	OpLHBRX:    "lhbrx",
	OpSRAW:     "sraw",
	OpSRAWI:    "srawi",
	OpEIEIO:    "eieio",
	OpSTHBRX:   "sthbrx",
	OpEXTSH:    "extsh",
	OpEXTSB:    "extsb",
	OpDIVWUO:   "divwuo",
	OpICBI:     "icbi",
	OpSTFIWX:   "stfiwx",
	OpDIVWO:    "divwo",
	OpDCBZ:     "dcbz",
	OpFDIVS:    "fdivs",
	OpFSUBS:    "fsubs",
	OpFADDS:    "fadds",
	OpFSQRTS:   "fsqrts",
	OpFRES:     "fres",
	OpFMULS:    "fmuls",
	OpFMSUBS:   "fmsubs",
	OpFMADDS:   "fmadds",
	OpFNMSUBS:  "fnmsubs",
	OpFNMADDS:  "fnmadds",
	OpFDIV:     "fdiv",
	OpFSUB:     "fsub",
	OpFADD:     "fadd",
	OpFSQRT:    "fsqrt",
	OpFSEL:     "fsel",
	OpFMUL:     "fmul",
	OpFRSQRTE:  "frsqrte",
	OpFMSUB:    "fmsub",
	OpFMADD:    "fmadd",
	OpFNMSUB:   "fnmsub",
	OpFNMADD:   "fnmadd",
	OpFCMPU:    "fcmpu",
	OpFRSP:     "frsp",
	OpFCTIW:    "fctiw",
	OpFCTIWZ:   "fctiwz",
	OpFCMPO:    "fcmpo",
	OpMTFSB1:   "mtfsb1",
	OpFNEG:     "fneg",
	OpMCRFS:    "mcrfs",
	OpMTFSB0:   "mtfsb0",
	OpFMR:      "fmr",
	OpMTFSFI:   "mtfsfi",
	OpFNABS:    "fnabs",
	OpFABS:     "fabs",
	OpMFFS:     "mffs",
	OpMTFSF:    "mtfsf",
}

// String returns the assembler mnemonic of the operation.
func (op Op) String() string {
	if op < NumOps {
		return opNames[op]
	}
	return "unknown"
}
