// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's blockdeflate.c zultra_get_literal_size /
// zultra_get_offset_size / zultra_get_varlen_size family: bit-cost lookups
// for literals, match lengths, and match distances under the current code.

package sadeflate

// costModel computes bit costs for literals and matches under a pair of
// Huffman encoders (literal/length and distance) that may still be
// mid-convergence (some code lengths zero).
type costModel struct {
	literals *huffmanEncoder
	offsets  *huffmanEncoder
}

// literalCost returns the bit cost of encoding literal byte b. Falls back
// to 8 bits (a safe upper bound) if the symbol hasn't been assigned a code
// length yet, e.g. during the first greedy pass.
func (c *costModel) literalCost(b byte) int {
	if l := c.literals.codeLength[b]; l > 0 {
		return int(l)
	}
	return 8
}

// lengthSymbol returns the length-alphabet symbol for match length ln (3..258).
func lengthSymbol(ln int) int {
	return int(matchLenSymbol[ln-minMatchSize])
}

// lengthCost returns the bit cost (codeword + extra bits) of a match length.
func (c *costModel) lengthCost(ln int) int {
	idx := ln - minMatchSize
	sym := int(matchLenSymbol[idx])
	extra := int(matchLenExtraBits[idx])
	codeLen := int(c.literals.codeLength[sym])
	if codeLen == 0 {
		codeLen = 8
	}
	return codeLen + extra
}

// distanceSymbol returns the distance-alphabet symbol for offset d (1..32768).
func distanceSymbol(d int) int {
	return int(offsetSymbol[offsetTableIndex(d)])
}

// distanceCost returns the bit cost (codeword + extra bits) of a match distance.
func (c *costModel) distanceCost(d int) int {
	idx := offsetTableIndex(d)
	sym := int(offsetSymbol[idx])
	extra := int(offsetExtraBits[idx])
	codeLen := int(c.offsets.codeLength[sym])
	if codeLen == 0 {
		codeLen = 5
	}
	return codeLen + extra
}

// matchCost returns the total bit cost of a (length, distance) token.
func (c *costModel) matchCost(ln, d int) int {
	return c.lengthCost(ln) + c.distanceCost(d)
}
