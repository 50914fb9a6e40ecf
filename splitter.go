// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's blockdeflate.c
// zultra_compressor_split_subblock_recursive / zultra_block_split: an
// entropy-drift-driven recursive block splitter inspired by the block
// splitting heuristic in libdeflate (Eric Biggers).

package sadeflate

const (
	splitMaxDepth       = 6
	splitMinSubBlock    = 8192
	splitStatBuckets    = 18
	splitStatCheckEvery = 256
	splitMinCheckSpan   = 512
	splitDriftPercent   = 45
)

// blockSplitter finds good points within one block-group's window to stop
// one entropy-coded DEFLATE block and start another, using greedy-parse
// match/literal statistics and exact dynamic-cost comparisons at candidate
// points.
type blockSplitter struct {
	literals *huffmanEncoder
	offsets  *huffmanEncoder
	tables   *huffmanEncoder

	splitOffsets []int
}

func newBlockSplitter(capacity int) *blockSplitter {
	return &blockSplitter{
		literals: newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0),
		offsets:  newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0),
		tables:   newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0),
		splitOffsets: make([]int, 0, maxSplitsLimit),
	}
}

// split returns the sorted split points (ascending, last entry always
// start+size) covering window[start:start+size), up to maxSplits entries.
func (s *blockSplitter) split(window []byte, start, size, maxSplits int, mf *matchFinder) []int {
	s.splitOffsets = s.splitOffsets[:0]
	if maxSplits > 0 {
		s.splitRecursive(window, start, size, 0, maxSplits-1, mf)
	}
	if len(s.splitOffsets) < maxSplits {
		s.splitOffsets = append(s.splitOffsets, start+size)
	}
	return s.splitOffsets
}

// prepareCostEvaluation resets and tallies greedy-parse entropy over
// [start, start+size) into s.literals/s.offsets.
func (s *blockSplitter) prepareCostEvaluation(window []byte, start, size int, mf *matchFinder) {
	s.literals.reset(0)
	s.offsets.reset(0)
	greedyEntropy(window, start, start+size, mf, s.literals, s.offsets)
}

func (s *blockSplitter) evaluateDynamicCost(lits, offs *huffmanEncoder) int {
	return evaluateDynamicCost(lits, offs, s.tables)
}

func (s *blockSplitter) splitRecursive(window []byte, start, size, depth, maxSplits int, mf *matchFinder) {
	if len(s.splitOffsets) >= maxSplits {
		return
	}
	if depth >= splitMaxDepth || size < splitMinSubBlock {
		return
	}

	var stat, newStat [splitStatBuckets]uint32
	var numStats, numNewStats uint32

	s.prepareCostEvaluation(window, start, size, mf)
	s.literals.estimateDynamicCodeLengths()
	s.offsets.estimateDynamicCodeLengths()
	totalDynamicCost := s.evaluateDynamicCost(s.literals, s.offsets)

	totalLits := cloneEntropy(s.literals)
	totalOffs := cloneEntropy(s.offsets)

	leftLits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	leftOffs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	rightLits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	rightOffs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)

	lastLeftEnd := start
	bestSplitOffset := start + size
	bestSplitDelta := 0
	lastGoodSplitIdx := -1

	end := start + size
	for i := start; i < end; {
		m := mf.matchesAt(i)[0]
		if int(m.length) >= minMatchSize {
			if m.length >= 9 {
				newStat[17]++
			} else {
				newStat[16]++
			}
			numNewStats++
			i += int(m.length)
		} else {
			b := window[i]
			newStat[((b>>4)&0xc)|(b&0x3)]++
			numNewStats++
			i++
		}

		if numNewStats >= splitStatCheckEvery && (i-start) >= splitMinCheckSpan {
			if numStats != 0 {
				var totalDelta uint64
				for j := 0; j < splitStatBuckets; j++ {
					expected := uint64(stat[j]) * uint64(numNewStats)
					actual := uint64(newStat[j]) * uint64(numStats)
					if expected > actual {
						totalDelta += expected - actual
					} else {
						totalDelta += actual - expected
					}
				}

				if lastGoodSplitIdx >= 0 && (totalDelta/uint64(numNewStats)) >= uint64(numStats)*splitDriftPercent/100 {
					s.prepareCostEvaluation(window, lastLeftEnd, lastGoodSplitIdx-lastLeftEnd, mf)

					for j := range leftLits.freq {
						leftLits.freq[j] += s.literals.freq[j]
					}
					for j := range leftOffs.freq {
						leftOffs.freq[j] += s.offsets.freq[j]
					}
					leftLits.freq[eobMarkerSym] = 1

					for j := range rightLits.freq {
						rightLits.freq[j] = totalLits[j] - leftLits.freq[j]
					}
					for j := range rightOffs.freq {
						rightOffs.freq[j] = totalOffs[j] - leftOffs.freq[j]
					}
					rightLits.freq[eobMarkerSym] = 1

					leftLits.estimateDynamicCodeLengths()
					leftOffs.estimateDynamicCodeLengths()
					leftCost := s.evaluateDynamicCost(leftLits, leftOffs)

					rightLits.estimateDynamicCodeLengths()
					rightOffs.estimateDynamicCodeLengths()
					rightCost := s.evaluateDynamicCost(rightLits, rightOffs)

					delta := totalDynamicCost - (leftCost + rightCost)
					if delta >= 0 {
						if bestSplitOffset == end || bestSplitDelta < delta {
							bestSplitOffset = lastGoodSplitIdx
							bestSplitDelta = delta
						}
					}

					lastLeftEnd = lastGoodSplitIdx
				}
			}

			for j := 0; j < splitStatBuckets; j++ {
				numStats += newStat[j]
				stat[j] += newStat[j]
				newStat[j] = 0
			}
			numNewStats = 0
			lastGoodSplitIdx = i
		}
	}

	if bestSplitOffset != end {
		s.splitRecursive(window, start, bestSplitOffset-start, depth+1, maxSplits, mf)
		if len(s.splitOffsets) < maxSplits {
			s.splitOffsets = append(s.splitOffsets, bestSplitOffset)
		}
		s.splitRecursive(window, bestSplitOffset, end-bestSplitOffset, depth+1, maxSplits, mf)
	}
}

func cloneEntropy(e *huffmanEncoder) []int {
	out := make([]int, len(e.freq))
	copy(out, e.freq)
	return out
}
