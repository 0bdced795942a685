// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

import (
	"github.com/grailbio/base/simd"
)

// 4-bit ambiguity codes.  Each of the low four bits stands for one of
// A, C, G, T; a code with more than one bit set is an ambiguity code.
const (
	Seq16A byte = 1
	Seq16C byte = 2
	Seq16G byte = 4
	Seq16R byte = 5 // A or G
	Seq16T byte = 8
	Seq16Y byte = 10 // C or T
	Seq16N byte = 15
)

// BaseClassOther is the ASCIIToBaseClass value of every non-ACGT byte.
const BaseClassOther = 4

// asciiToSeq16Table maps both cases of the IUPAC letters to their code.
// 'X' maps to 0, which has a bit count of 4 like 'N'; every other byte maps
// to Seq16N.
var asciiToSeq16Table = [256]byte{
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 1, 14, 2, 13, 15, 15, 4, 11, 15, 15, 12, 15, 3, 15, 15,
	15, 15, 5, 6, 8, 15, 7, 9, 0, 10, 15, 15, 15, 15, 15, 15,
	15, 1, 14, 2, 13, 15, 15, 4, 11, 15, 15, 12, 15, 3, 15, 15,
	15, 15, 5, 6, 8, 15, 7, 9, 0, 10, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
}

// asciiToBaseClassTable maps 'A'/'a' -> 0, 'C'/'c' -> 1, 'G'/'g' -> 2,
// 'T'/'t' -> 3, anything else -> BaseClassOther.
var asciiToBaseClassTable = [256]byte{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}

var seq16BitCountTable = simd.MakeNibbleLookupTable([16]byte{
	4, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 4})

var seq16ToACGTTable = simd.MakeNibbleLookupTable([16]byte{
	4, 0, 1, 4, 2, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4})

// ASCIIToSeq16 returns the 4-bit ambiguity code of an ASCII base.
func ASCIIToSeq16(c byte) byte {
	return asciiToSeq16Table[c]
}

// Seq16BitCount returns the number of bases a 4-bit code may stand for:
// 1 for an exact base, 2-4 for ambiguity codes.  Code 0 counts as 4.
func Seq16BitCount(code byte) int {
	return int(seq16BitCountTable.Get(code & 15))
}

// Seq16ToACGT returns 0-3 for the exact codes A, C, G, T and 4 for every
// ambiguity code.
func Seq16ToACGT(code byte) byte {
	return seq16ToACGTTable.Get(code & 15)
}

// ASCIIToBaseClass returns 0-3 for A, C, G, T (either case) and
// BaseClassOther for anything else.
func ASCIIToBaseClass(c byte) byte {
	return asciiToBaseClassTable[c]
}
