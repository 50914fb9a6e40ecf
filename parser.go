// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's blockdeflate.c zultra_optimize_matches_lwd
// (backward DP optimal parser), zultra_build_initial_entropy_lwd /
// zultra_build_final_entropy_lwd (entropy accounting), and
// zultra_post_optimize_block_lwd (post-optimization literal rewrite).
//
// cost[] aliases pos_data[] in zultra because their lifetimes are
// disjoint; here they are simply two separate scratch slices, trading a
// few extra words of memory for clarity.

package sadeflate

// parser runs the backward-DP optimal parse over one sub-range of a window,
// reusing scratch buffers across sub-blocks and block-groups.
type parser struct {
	cost      []int
	bestMatch []match
}

func newParser(capacity int) *parser {
	return &parser{
		cost:      make([]int, capacity),
		bestMatch: make([]match, capacity),
	}
}

// greedyEntropy walks [start, end) taking the first (longest) candidate
// match at each position when available, to seed initial code lengths
// before the first optimal parse.
func greedyEntropy(window []byte, start, end int, mf *matchFinder, lits, dists *huffmanEncoder) {
	for i := start; i < end; {
		m := mf.matchesAt(i)[0]
		if int(m.length) >= minMatchSize {
			lits.freq[lengthSymbol(int(m.length))]++
			dists.freq[distanceSymbol(int(m.offset))]++
			i += int(m.length)
		} else {
			lits.freq[window[i]]++
			i++
		}
	}
	lits.freq[eobMarkerSym]++
}

// finalEntropy walks the chosen parse in bestMatch[start:end) and tallies
// final frequencies the same way greedyEntropy does for the initial pass.
func finalEntropy(window []byte, start, end int, bestMatch []match, lits, dists *huffmanEncoder) {
	for i := start; i < end; {
		m := bestMatch[i]
		if int(m.length) >= minMatchSize {
			lits.freq[lengthSymbol(int(m.length))]++
			dists.freq[distanceSymbol(int(m.offset))]++
			i += int(m.length)
		} else {
			lits.freq[window[i]]++
			i++
		}
	}
	lits.freq[eobMarkerSym]++
}

// optimize runs the backward shortest-path DP over [start, end), filling
// p.bestMatch[start:end) with the minimum-cost token at each position.
// Candidates at or above leaveAloneMatchSize are only evaluated at full
// length (never shortened); shorter candidates are evaluated at every
// length from their clamped length down to minMatchSize. Updates are
// strict less-than only, so on equal cost the first option evaluated
// wins: the literal, then earlier candidates, and within one candidate
// the longer length.
func (p *parser) optimize(window []byte, start, end int, mf *matchFinder, cm *costModel) {
	if end <= start {
		return
	}

	var cachedVarlenSize [leaveAloneMatchSize]int
	for k := minMatchSize; k < leaveAloneMatchSize; k++ {
		cachedVarlenSize[k] = cm.lengthCost(k)
	}

	cost := p.cost
	best := p.bestMatch

	cost[end-1] = cm.literalCost(window[end-1])
	best[end-1] = match{}

	for i := end - 2; i >= start; i-- {
		bestCost := cm.literalCost(window[i]) + cost[i+1]
		bestLen, bestOff := 0, 0

		for _, m := range mf.matchesAt(i) {
			if int(m.length) < minMatchSize {
				break
			}

			offsetSize := cm.distanceCost(int(m.offset))
			matchLen := int(m.length)
			if i+matchLen > end-lastLiterals {
				matchLen = end - lastLiterals - i
			}
			if matchLen < minMatchSize {
				continue
			}

			if int(m.length) >= leaveAloneMatchSize {
				curCost := cm.lengthCost(matchLen) + offsetSize + cost[i+matchLen]
				if bestCost > curCost {
					bestCost = curCost
					bestLen = matchLen
					bestOff = int(m.offset)
				}
			} else {
				for k := matchLen; k >= minMatchSize; k-- {
					curCost := cachedVarlenSize[k] + offsetSize + cost[i+k]
					if bestCost > curCost {
						bestCost = curCost
						bestLen = k
						bestOff = int(m.offset)
					}
				}
			}
		}

		cost[i] = bestCost
		best[i] = match{length: uint16(bestLen), offset: uint16(bestOff)}
	}
}

// postOptimize scans the final parse and rewrites any match whose literal
// encoding would be strictly cheaper under the final code, provided every
// covered byte's literal symbol actually has an assigned code length.
func postOptimize(window []byte, start, end int, bestMatch []match, lits, dists *huffmanEncoder) {
	for i := start; i < end; {
		m := &bestMatch[i]
		if int(m.length) < minMatchSize {
			i++
			continue
		}

		matchLen := int(m.length)
		matchOffset := int(m.offset)
		startIdx := i
		i += matchLen

		if matchOffset < minOffset || matchOffset > maxOffset {
			continue
		}

		matchCost := lengthCostFinal(lits, matchLen) + distanceCostFinal(dists, matchOffset)

		literalsCost := 0
		shortCircuit := false
		for j := 0; j < matchLen && literalsCost < matchCost; j++ {
			cl := int(lits.codeLength[window[startIdx+j]])
			if cl == 0 {
				shortCircuit = true
				break
			}
			literalsCost += cl
		}
		if shortCircuit {
			continue
		}

		if literalsCost < matchCost {
			for j := 0; j < matchLen; j++ {
				bestMatch[startIdx+j].length = 0
			}
		}
	}
}

func lengthCostFinal(lits *huffmanEncoder, ln int) int {
	idx := ln - minMatchSize
	return int(lits.codeLength[matchLenSymbol[idx]]) + int(matchLenExtraBits[idx])
}

func distanceCostFinal(dists *huffmanEncoder, d int) int {
	idx := offsetTableIndex(d)
	return int(dists.codeLength[offsetSymbol[idx]]) + int(offsetExtraBits[idx])
}
