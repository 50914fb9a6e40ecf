package sadeflate

import "testing"

func TestProcessVarLengthsEmitMatchesMeasure(t *testing.T) {
	codeLength := []uint8{
		0, 0, 0, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 0, 0, 0, 0, 0, 3, 3, 3,
	}
	table := newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0)

	if _, err := processVarLengths(codeLength, table, maxCodesMask, rleCount, nil); err != nil {
		t.Fatalf("rleCount: %v", err)
	}
	table.buildDynamicCodewords()

	measuredBits, err := processVarLengths(codeLength, table, maxCodesMask, rleMeasure, nil)
	if err != nil {
		t.Fatalf("rleMeasure: %v", err)
	}

	out := make([]byte, 64)
	w := newBitWriter(out, 0)
	if _, err := processVarLengths(codeLength, table, maxCodesMask, rleEmit, w); err != nil {
		t.Fatalf("rleEmit: %v", err)
	}
	emittedBits := w.offset*8 + w.bitCount

	if emittedBits != measuredBits {
		t.Fatalf("emitted %d bits, measured %d bits for the same codeLength/mask", emittedBits, measuredBits)
	}
}

func TestProcessVarLengthsRunsOfZeroUseSymbol18(t *testing.T) {
	codeLength := make([]uint8, 138)
	table := newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0)

	if _, err := processVarLengths(codeLength, table, maxCodesMask, rleCount, nil); err != nil {
		t.Fatalf("rleCount: %v", err)
	}
	if table.freq[18] != 1 {
		t.Fatalf("a 138-long zero run under the full mask should collapse to one symbol-18 use, freq[18] = %d", table.freq[18])
	}
}

func TestProcessVarLengthsMaskDisablesSymbols(t *testing.T) {
	codeLength := make([]uint8, 20) // a single run of 20 zeros
	table := newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0)

	mask := uint32(0) // no RLE symbols allowed at all
	if _, err := processVarLengths(codeLength, table, mask, rleCount, nil); err != nil {
		t.Fatalf("rleCount: %v", err)
	}
	if table.freq[18] != 0 || table.freq[17] != 0 || table.freq[16] != 0 {
		t.Fatalf("mask=0 must not use any RLE symbol, got freq 16/17/18 = %d/%d/%d",
			table.freq[16], table.freq[17], table.freq[18])
	}
	if table.freq[0] != 20 {
		t.Fatalf("mask=0 must emit each zero length literally, freq[0] = %d, want 20", table.freq[0])
	}
}

func TestSearchBestRLEMaskReturnsValidMask(t *testing.T) {
	codeLength := []uint8{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 4, 4, 4, 4, 4, 4, 0, 0,
	}
	table := newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0)

	mask, bits, err := searchBestRLEMask(codeLength, table)
	if err != nil {
		t.Fatalf("searchBestRLEMask: %v", err)
	}
	if mask > 31 {
		t.Fatalf("mask = %d out of range", mask)
	}
	if bits <= 0 {
		t.Fatalf("bits = %d, want positive", bits)
	}
}
