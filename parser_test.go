package sadeflate

import (
	"bytes"
	"testing"
)

// reconstructParse replays bestMatch[start:end) the way writeBlockData does,
// without any bitstream, and returns the bytes it reproduces -- the defining
// correctness property of any token stream the parser produces.
func reconstructParse(window []byte, start, end int, bestMatch []match) []byte {
	out := make([]byte, 0, end-start)
	for i := start; i < end; {
		m := bestMatch[i]
		if int(m.length) >= minMatchSize {
			for j := 0; j < int(m.length); j++ {
				out = append(out, window[i-int(m.offset)+j])
			}
			i += int(m.length)
		} else {
			out = append(out, window[i])
			i++
		}
	}
	return out
}

func TestParserOptimizeReconstructsInput(t *testing.T) {
	window := bytes.Repeat([]byte("ab"), 50) // 100 bytes, highly repetitive
	mf := newMatchFinder(len(window))
	mf.build(window)
	mf.findAllMatches(0, len(window))

	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	cm := &costModel{literals: lits, offsets: offs}

	p := newParser(len(window))
	p.optimize(window, 0, len(window), mf, cm)

	got := reconstructParse(window, 0, len(window), p.bestMatch)
	if !bytes.Equal(got, window) {
		t.Fatalf("reconstructed parse does not reproduce the input:\n got  %q\n want %q", got, window)
	}
}

func TestParserOptimizeHandlesIncompressibleInput(t *testing.T) {
	window := []byte{0x01, 0x9f, 0x22, 0x7e, 0xc4, 0x05, 0x88, 0x3b, 0x71, 0xaa, 0x44, 0x12}
	mf := newMatchFinder(len(window))
	mf.build(window)
	mf.findAllMatches(0, len(window))

	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	cm := &costModel{literals: lits, offsets: offs}

	p := newParser(len(window))
	p.optimize(window, 0, len(window), mf, cm)

	got := reconstructParse(window, 0, len(window), p.bestMatch)
	if !bytes.Equal(got, window) {
		t.Fatalf("reconstructed parse does not reproduce incompressible input:\n got  %v\n want %v", got, window)
	}
}

func TestGreedyAndFinalEntropyAgreeOnGreedyParse(t *testing.T) {
	window := bytes.Repeat([]byte("xyz"), 10)
	mf := newMatchFinder(len(window))
	mf.build(window)
	mf.findAllMatches(0, len(window))

	lits1 := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs1 := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	greedyEntropy(window, 0, len(window), mf, lits1, offs1)

	// Replay the same greedy choices into bestMatch and confirm finalEntropy
	// tallies identically.
	bestMatch := make([]match, len(window))
	for i := 0; i < len(window); {
		m := mf.matchesAt(i)[0]
		if int(m.length) >= minMatchSize {
			bestMatch[i] = m
			i += int(m.length)
		} else {
			i++
		}
	}

	lits2 := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs2 := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	finalEntropy(window, 0, len(window), bestMatch, lits2, offs2)

	for i := range lits1.freq {
		if lits1.freq[i] != lits2.freq[i] {
			t.Fatalf("literal freq[%d] = %d, want %d (greedy vs replayed-greedy mismatch)", i, lits2.freq[i], lits1.freq[i])
		}
	}
	for i := range offs1.freq {
		if offs1.freq[i] != offs2.freq[i] {
			t.Fatalf("offset freq[%d] = %d, want %d", i, offs2.freq[i], offs1.freq[i])
		}
	}
}

func TestPostOptimizeRewritesExpensiveMatchToLiterals(t *testing.T) {
	window := []byte("aaaaaXaaaaa")
	// A match of length 5 at position 6 referencing position 0.
	bestMatch := make([]match, len(window))
	bestMatch[6] = match{length: 5, offset: 6}

	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)

	// Make the match artificially expensive (long codewords) and literals
	// artificially cheap, so post-optimization must prefer literals.
	lits.codeLength['a'] = 1
	lits.codeLength[matchLenSymbol[5-minMatchSize]] = 15
	offs.codeLength[offsetSymbol[offsetTableIndex(6)]] = 15

	postOptimize(window, 0, len(window), bestMatch, lits, offs)

	for i := 6; i < 11; i++ {
		if bestMatch[i].length != 0 {
			t.Fatalf("position %d: match should have been rewritten to literal, still length %d", i, bestMatch[i].length)
		}
	}
}

func TestPostOptimizeKeepsCheapMatch(t *testing.T) {
	window := []byte("aaaaaXaaaaa")
	bestMatch := make([]match, len(window))
	bestMatch[6] = match{length: 5, offset: 6}

	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)

	// Cheap match, expensive literals: the match must survive.
	lits.codeLength['a'] = 15
	lits.codeLength[matchLenSymbol[5-minMatchSize]] = 1
	offs.codeLength[offsetSymbol[offsetTableIndex(6)]] = 1

	postOptimize(window, 0, len(window), bestMatch, lits, offs)

	if bestMatch[6].length != 5 {
		t.Fatalf("cheap match at position 6 should survive post-optimization, length = %d", bestMatch[6].length)
	}
}
