package sadeflate

import "testing"

func TestLiteralCostFallsBackToEightBits(t *testing.T) {
	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	cm := &costModel{literals: lits, offsets: offs}

	if got := cm.literalCost('A'); got != 8 {
		t.Fatalf("literalCost with no assigned code length = %d, want 8", got)
	}

	lits.codeLength['A'] = 5
	if got := cm.literalCost('A'); got != 5 {
		t.Fatalf("literalCost with assigned code length = %d, want 5", got)
	}
}

func TestLengthAndDistanceCostIncludeExtraBits(t *testing.T) {
	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	cm := &costModel{literals: lits, offsets: offs}

	// Length 11 (index 8) needs 1 extra bit (see matchLenExtraBits).
	lits.codeLength[matchLenSymbol[11-minMatchSize]] = 6
	if got := cm.lengthCost(11); got != 6+int(matchLenExtraBits[11-minMatchSize]) {
		t.Fatalf("lengthCost(11) = %d, want %d", got, 6+int(matchLenExtraBits[11-minMatchSize]))
	}

	// Distance 100 needs some extra bits per offsetExtraBits.
	idx := offsetTableIndex(100)
	offs.codeLength[offsetSymbol[idx]] = 5
	if got := cm.distanceCost(100); got != 5+int(offsetExtraBits[idx]) {
		t.Fatalf("distanceCost(100) = %d, want %d", got, 5+int(offsetExtraBits[idx]))
	}
}

func TestMatchCostIsSumOfLengthAndDistance(t *testing.T) {
	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	cm := &costModel{literals: lits, offsets: offs}

	want := cm.lengthCost(20) + cm.distanceCost(500)
	if got := cm.matchCost(20, 500); got != want {
		t.Fatalf("matchCost = %d, want %d", got, want)
	}
}

func TestOffsetTableIndexBoundary(t *testing.T) {
	if offsetTableIndex(256) != 255 {
		t.Fatalf("offsetTableIndex(256) = %d, want 255", offsetTableIndex(256))
	}
	if offsetTableIndex(257) != 256 {
		t.Fatalf("offsetTableIndex(257) = %d, want 256", offsetTableIndex(257))
	}
	if offsetTableIndex(1) != 0 {
		t.Fatalf("offsetTableIndex(1) = %d, want 0", offsetTableIndex(1))
	}
}
