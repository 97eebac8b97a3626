package insts

// entries lists every instruction recognized by the decoder. Primary
// opcodes 19, 31, 59 and 63 dispatch through an extended table keyed by
// the 10-bit secondary opcode in bits 21-30.
var entries = []Entry{
	{Primary: 2, Form: FormD, Op: OpTDI},
	{Primary: 3, Form: FormD, Op: OpTWI},
	{Primary: 7, Form: FormD, Op: OpMULLI},
	{Primary: 8, Form: FormD, Op: OpSUBFIC},
	{Primary: 10, Form: FormD, Op: OpCMPLI},
	{Primary: 11, Form: FormD, Op: OpCMPI},
	{Primary: 12, Form: FormD, Op: OpADDIC},
	{Primary: 13, Form: FormD, Op: OpADDICDot},
	{Primary: 14, Form: FormD, Op: OpADDI},
	{Primary: 15, Form: FormD, Op: OpADDIS},
	{Primary: 24, Form: FormD, Op: OpORI},
	{Primary: 25, Form: FormD, Op: OpORIS},
	{Primary: 26, Form: FormD, Op: OpXORI},
	{Primary: 27, Form: FormD, Op: OpXORIS},
	{Primary: 28, Form: FormD, Op: OpANDIDot},
	{Primary: 29, Form: FormD, Op: OpANDISDot},
	{Primary: 32, Form: FormD, Op: OpLWZ},
	{Primary: 33, Form: FormD, Op: OpLWZU},
	{Primary: 34, Form: FormD, Op: OpLBZ},
	{Primary: 35, Form: FormD, Op: OpLBZU},
	{Primary: 36, Form: FormD, Op: OpSTW},
	{Primary: 37, Form: FormD, Op: OpSTWU},
	{Primary: 38, Form: FormD, Op: OpSTB},
	{Primary: 39, Form: FormD, Op: OpSTBU},
	{Primary: 40, Form: FormD, Op: OpLHZ},
	{Primary: 41, Form: FormD, Op: OpLHZU},
	{Primary: 42, Form: FormD, Op: OpLHA},
	{Primary: 43, Form: FormD, Op: OpLHAU},
	{Primary: 44, Form: FormD, Op: OpSTH},
	{Primary: 45, Form: FormD, Op: OpSTHU},
	{Primary: 46, Form: FormD, Op: OpLMW},
	{Primary: 47, Form: FormD, Op: OpSTMW},
	{Primary: 48, Form: FormD, Op: OpLFS},
	{Primary: 49, Form: FormD, Op: OpLFSU},
	{Primary: 50, Form: FormD, Op: OpLFD},
	{Primary: 51, Form: FormD, Op: OpLFDU},
	{Primary: 52, Form: FormD, Op: OpSTFS},
	{Primary: 53, Form: FormD, Op: OpSTFSU},
	{Primary: 54, Form: FormD, Op: OpSTFD},
	{Primary: 55, Form: FormD, Op: OpSTFDU},
	{Primary: 4, Form: FormX, Op: OpVX},
	{Primary: 16, Form: FormB, Op: OpBC},
	{Primary: 17, Form: FormSC, Op: OpSC},
	{Primary: 18, Form: FormI, Op: OpB},
	{Primary: 20, Form: FormM, Op: OpRLWIMI},
	{Primary: 21, Form: FormM, Op: OpRLWINM},
	{Primary: 23, Form: FormM, Op: OpRLWNM},
	// 19
	{Primary: 19, XO: 0, Form: FormXL, Op: OpMCRF},
	{Primary: 19, XO: 16, Form: FormXL, Op: OpBCLR},
	{Primary: 19, XO: 18, Form: FormXL, Op: OpRFID},
	{Primary: 19, XO: 33, Form: FormXL, Op: OpCRNOR},
	{Primary: 19, XO: 50, Form: FormXL, Op: OpRFI},
	{Primary: 19, XO: 129, Form: FormXL, Op: OpCRANDC},
	{Primary: 19, XO: 150, Form: FormXL, Op: OpISYNC},
	{Primary: 19, XO: 193, Form: FormXL, Op: OpCRXOR},
	{Primary: 19, XO: 225, Form: FormXL, Op: OpCRNAND},
	{Primary: 19, XO: 257, Form: FormXL, Op: OpCRAND},
	{Primary: 19, XO: 289, Form: FormXL, Op: OpCREQV},
	{Primary: 19, XO: 417, Form: FormXL, Op: OpCRORC},
	{Primary: 19, XO: 449, Form: FormXL, Op: OpCROR},
	{Primary: 19, XO: 528, Form: FormXL, Op: OpBCCTR},
	// 31
	{Primary: 31, XO: 0, Form: FormX, Op: OpCMP},
	{Primary: 31, XO: 4, Form: FormX, Op: OpTW},
	{Primary: 31, XO: 8, Form: FormXO, Op: OpSUBFC},
	{Primary: 31, XO: 10, Form: FormXO, Op: OpADDC},
	{Primary: 31, XO: 11, Form: FormXO, Op: OpMULHWU},
	{Primary: 31, XO: 19, Form: FormXFX, Op: OpMFCR},
	{Primary: 31, XO: 20, Form: FormX, Op: OpLWARX},
	{Primary: 31, XO: 23, Form: FormX, Op: OpLWZX},
	{Primary: 31, XO: 24, Form: FormX, Op: OpSLW},
	{Primary: 31, XO: 26, Form: FormX, Op: OpCNTLZW},
	{Primary: 31, XO: 28, Form: FormX, Op: OpAND},
	{Primary: 31, XO: 32, Form: FormX, Op: OpCMPL},
	{Primary: 31, XO: 40, Form: FormXO, Op: OpSUBF},
	{Primary: 31, XO: 54, Form: FormX, Op: OpDCBST},
	{Primary: 31, XO: 55, Form: FormX, Op: OpLWZUX},
	{Primary: 31, XO: 60, Form: FormX, Op: OpANDC},
	{Primary: 31, XO: 75, Form: FormXO, Op: OpMULHW},
	{Primary: 31, XO: 83, Form: FormX, Op: OpMFMSR},
	{Primary: 31, XO: 86, Form: FormX, Op: OpDCBF},
	{Primary: 31, XO: 87, Form: FormX, Op: OpLBZX},
	{Primary: 31, XO: 104, Form: FormXO, Op: OpNEG},
	{Primary: 31, XO: 119, Form: FormX, Op: OpLBZUX},
	{Primary: 31, XO: 124, Form: FormX, Op: OpNOR},
	{Primary: 31, XO: 136, Form: FormXO, Op: OpSUBFE},
	{Primary: 31, XO: 138, Form: FormXO, Op: OpADDE},
	{Primary: 31, XO: 144, Form: FormXFX, Op: OpMTCRF},
	{Primary: 31, XO: 146, Form: FormX, Op: OpMTMSR},
	{Primary: 31, XO: 150, Form: FormX, Op: OpSTWCXDot},
	{Primary: 31, XO: 151, Form: FormX, Op: OpSTWX},
	{Primary: 31, XO: 183, Form: FormX, Op: OpSTWUX},
	{Primary: 31, XO: 200, Form: FormXO, Op: OpSUBFZE},
	{Primary: 31, XO: 202, Form: FormXO, Op: OpADDZE},
	{Primary: 31, XO: 210, Form: FormX, Op: OpMTSR},
	{Primary: 31, XO: 215, Form: FormX, Op: OpSTBX},
	{Primary: 31, XO: 232, Form: FormXO, Op: OpSUBFME},
	{Primary: 31, XO: 234, Form: FormXO, Op: OpADDME},
	{Primary: 31, XO: 235, Form: FormXO, Op: OpMULLW},
	{Primary: 31, XO: 246, Form: FormX, Op: OpDCBTST},
	{Primary: 31, XO: 247, Form: FormX, Op: OpSTBUX},
	{Primary: 31, XO: 266, Form: FormXO, Op: OpADD},
	{Primary: 31, XO: 278, Form: FormX, Op: OpDCBT},
	{Primary: 31, XO: 279, Form: FormX, Op: OpLHZX},
	{Primary: 31, XO: 284, Form: FormX, Op: OpEQV},
	{Primary: 31, XO: 306, Form: FormX, Op: OpTLBIE},
	{Primary: 31, XO: 311, Form: FormX, Op: OpLHZUX},
	{Primary: 31, XO: 316, Form: FormX, Op: OpXOR},
	{Primary: 31, XO: 339, Form: FormXFX, Op: OpMFSPR},
	{Primary: 31, XO: 343, Form: FormX, Op: OpLHAX},
	{Primary: 31, XO: 371, Form: FormXFX, Op: OpMFTB},
	{Primary: 31, XO: 375, Form: FormX, Op: OpLHAUX},
	{Primary: 31, XO: 407, Form: FormX, Op: OpSTHX},
	{Primary: 31, XO: 412, Form: FormX, Op: OpORC},
	{Primary: 31, XO: 439, Form: FormX, Op: OpSTHUX},
	{Primary: 31, XO: 444, Form: FormX, Op: OpOR},
	{Primary: 31, XO: 459, Form: FormXO, Op: OpDIVWU},
	{Primary: 31, XO: 467, Form: FormXFX, Op: OpMTSPR},
	{Primary: 31, XO: 470, Form: FormX, Op: OpDCBI},
	{Primary: 31, XO: 476, Form: FormX, Op: OpNAND},
	{Primary: 31, XO: 491, Form: FormXO, Op: OpDIVW},
	{Primary: 31, XO: 512, Form: FormX, Op: OpMCRXR},
	{Primary: 31, XO: 520, Form: FormXO, Op: OpSUBFCO},
	{Primary: 31, XO: 522, Form: FormXO, Op: OpADDCO},
	{Primary: 31, XO: 533, Form: FormX, Op: OpLSWX},
	{Primary: 31, XO: 534, Form: FormX, Op: OpLWBRX},
	{Primary: 31, XO: 535, Form: FormX, Op: OpLFSX},
	{Primary: 31, XO: 536, Form: FormX, Op: OpSRW},
	{Primary: 31, XO: 552, Form: FormXO, Op: OpSUBFO},
	{Primary: 31, XO: 567, Form: FormX, Op: OpLFSUX},
	{Primary: 31, XO: 595, Form: FormX, Op: OpMFSR},
	{Primary: 31, XO: 597, Form: FormX, Op: OpLSWI},
	{Primary: 31, XO: 598, Form: FormX, Op: OpSYNC},
	{Primary: 31, XO: 599, Form: FormX, Op: OpLFDX},
	{Primary: 31, XO: 616, Form: FormXO, Op: OpNEGO},
	{Primary: 31, XO: 631, Form: FormX, Op: OpLFDUX},
	{Primary: 31, XO: 648, Form: FormXO, Op: OpSUBFEO},
	{Primary: 31, XO: 650, Form: FormXO, Op: OpADDEO},
	{Primary: 31, XO: 662, Form: FormX, Op: OpSTWBRX},
	{Primary: 31, XO: 663, Form: FormX, Op: OpSTFSX},
	{Primary: 31, XO: 695, Form: FormX, Op: OpSTFSUX},
	{Primary: 31, XO: 712, Form: FormXO, Op: OpSUBFZEO},
	{Primary: 31, XO: 714, Form: FormXO, Op: OpADDZEO},
	{Primary: 31, XO: 725, Form: FormX, Op: OpSTSWI},
	{Primary: 31, XO: 727, Form: FormX, Op: OpSTFDX},
	{Primary: 31, XO: 744, Form: FormXO, Op: OpSUBFMEO},
	{Primary: 31, XO: 746, Form: FormXO, Op: OpADDMEO},
	{Primary: 31, XO: 747, Form: FormXO, Op: OpMULLWO},
	{Primary: 31, XO: 759, Form: FormX, Op: OpSTFDUX},
	{Primary: 31, XO: 778, Form: FormXO, Op: OpADDO},
	{Primary: 31, XO: 790, Form: FormX, Op: OpLHBRX},
	{Primary: 31, XO: 792, Form: FormX, Op: OpSRAW},
	{Primary: 31, XO: 824, Form: FormX, Op: OpSRAWI},
	{Primary: 31, XO: 854, Form: FormX, Op: OpEIEIO},
	{Primary: 31, XO: 918, Form: FormX, Op: OpSTHBRX},
	{Primary: 31, XO: 922, Form: FormX, Op: OpEXTSH},
	{Primary: 31, XO: 954, Form: FormX, Op: OpEXTSB},
	{Primary: 31, XO: 971, Form: FormXO, Op: OpDIVWUO},
	{Primary: 31, XO: 982, Form: FormX, Op: OpICBI},
	{Primary: 31, XO: 983, Form: FormX, Op: OpSTFIWX},
	{Primary: 31, XO: 1003, Form: FormXO, Op: OpDIVWO},
	{Primary: 31, XO: 1014, Form: FormX, Op: OpDCBZ},
	// 59
	{Primary: 59, XO: 18, Form: FormA, Op: OpFDIVS},
	{Primary: 59, XO: 20, Form: FormA, Op: OpFSUBS},
	{Primary: 59, XO: 21, Form: FormA, Op: OpFADDS},
	{Primary: 59, XO: 22, Form: FormA, Op: OpFSQRTS},
	{Primary: 59, XO: 24, Form: FormA, Op: OpFRES},
	{Primary: 59, XO: 25, Form: FormA, Op: OpFMULS},
	{Primary: 59, XO: 28, Form: FormA, Op: OpFMSUBS},
	{Primary: 59, XO: 29, Form: FormA, Op: OpFMADDS},
	{Primary: 59, XO: 30, Form: FormA, Op: OpFNMSUBS},
	{Primary: 59, XO: 31, Form: FormA, Op: OpFNMADDS},
	// 63
	{Primary: 63, XO: 18, Form: FormA, Op: OpFDIV},
	{Primary: 63, XO: 20, Form: FormA, Op: OpFSUB},
	{Primary: 63, XO: 21, Form: FormA, Op: OpFADD},
	{Primary: 63, XO: 22, Form: FormA, Op: OpFSQRT},
	{Primary: 63, XO: 23, Form: FormA, Op: OpFSEL},
	{Primary: 63, XO: 25, Form: FormA, Op: OpFMUL},
	{Primary: 63, XO: 26, Form: FormA, Op: OpFRSQRTE},
	{Primary: 63, XO: 28, Form: FormA, Op: OpFMSUB},
	{Primary: 63, XO: 29, Form: FormA, Op: OpFMADD},
	{Primary: 63, XO: 30, Form: FormA, Op: OpFNMSUB},
	{Primary: 63, XO: 31, Form: FormA, Op: OpFNMADD},
	{Primary: 63, XO: 0, Form: FormX, Op: OpFCMPU},
	{Primary: 63, XO: 12, Form: FormX, Op: OpFRSP},
	{Primary: 63, XO: 14, Form: FormX, Op: OpFCTIW},
	{Primary: 63, XO: 15, Form: FormX, Op: OpFCTIWZ},
	{Primary: 63, XO: 32, Form: FormX, Op: OpFCMPO},
	{Primary: 63, XO: 38, Form: FormX, Op: OpMTFSB1},
	{Primary: 63, XO: 40, Form: FormX, Op: OpFNEG},
	{Primary: 63, XO: 64, Form: FormX, Op: OpMCRFS},
	{Primary: 63, XO: 70, Form: FormX, Op: OpMTFSB0},
	{Primary: 63, XO: 72, Form: FormX, Op: OpFMR},
	{Primary: 63, XO: 134, Form: FormX, Op: OpMTFSFI},
	{Primary: 63, XO: 136, Form: FormX, Op: OpFNABS},
	{Primary: 63, XO: 264, Form: FormX, Op: OpFABS},
	{Primary: 63, XO: 583, Form: FormX, Op: OpMFFS},
	{Primary: 63, XO: 711, Form: FormXFL, Op: OpMTFSF},
}
