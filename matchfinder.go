// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's matchfinder.c (the LCP-interval match finder,
// itself adapted from wimlib's lcpit_matchfinder, CC0) and private.h for
// the packed-word bit layout.

package sadeflate

const (
	posBits     = 22
	posMask     = uint32(1<<posBits) - 1
	lcpShift    = posBits
	lcpBits     = 9
	lcpMask     = uint32(1<<lcpBits-1) << lcpShift
	visitedFlag = uint32(1) << 31
	exclVisitedMask = ^uint32(0) >> 1 // 0x7fffffff, strips only the visited bit
)

// match is a candidate (length, offset) pair. An empty match has length 0.
type match struct {
	length uint16
	offset uint16
}

// matchFinder builds a suffix array and LCP-interval tree over one window
// and answers per-position match queries against it. One instance is
// reused across block-groups within a stream (see writer.go).
type matchFinder struct {
	intervals     []uint32 // SA/LCP words, later overwritten into interval parent pointers
	posData       []uint32 // deepest interval containing each text position
	openIntervals []uint32 // explicit stack used while building the interval tree
	matches       []match  // matchesPerPosition per position, filled by findAllMatches
}

func newMatchFinder(capacity int) *matchFinder {
	return &matchFinder{
		intervals:     make([]uint32, capacity),
		posData:       make([]uint32, capacity),
		openIntervals: make([]uint32, capacity+1),
		matches:       make([]match, capacity*matchesPerPosition),
	}
}

// build constructs the suffix array and LCP-interval tree over window.
// Must be called once per block-group before any find/skip calls.
func (mf *matchFinder) build(window []byte) {
	n := len(window)
	if n == 0 {
		return
	}

	sa := buildSuffixArray(window)
	lcp := buildLCPArray(window, sa)

	intervals := mf.intervals[:n]
	intervals[0] = uint32(sa[0]) & posMask
	for r := 1; r < n; r++ {
		l := lcp[r]
		if l < minMatchSize {
			l = 0
		}
		if l > maxMatchSize {
			l = maxMatchSize
		}
		intervals[r] = (uint32(sa[r]) & posMask) | (uint32(l) << lcpShift)
	}

	mf.buildIntervalTree(intervals)
}

// buildIntervalTree walks the packed SA/LCP array left to right, mirroring
// wimlib's lcpit_matchfinder construction via an explicit open-interval
// stack.
func (mf *matchFinder) buildIntervalTree(saAndLCP []uint32) {
	n := len(saAndLCP)
	posData := mf.posData[:n]
	top := 0
	mf.openIntervals[0] = 0

	// saAndLCP aliases mf.intervals, so read its first entry before
	// intervals[0] is reset to the root.
	prevPos := saAndLCP[0] & posMask

	intervals := mf.intervals[:n]
	intervals[0] = 0
	nextIntervalIdx := uint32(1)

	for r := 1; r < n; r++ {
		nextPos := saAndLCP[r] & posMask
		nextLCP := saAndLCP[r] & lcpMask
		topLCP := mf.openIntervals[top] & lcpMask

		switch {
		case nextLCP == topLCP:
			posData[prevPos] = mf.openIntervals[top]
		case nextLCP > topLCP:
			top++
			mf.openIntervals[top] = nextLCP | nextIntervalIdx
			nextIntervalIdx++
			posData[prevPos] = mf.openIntervals[top]
		default:
			posData[prevPos] = mf.openIntervals[top]
			for {
				closedIdx := mf.openIntervals[top] & posMask
				top--
				superLCP := mf.openIntervals[top] & lcpMask

				if nextLCP == superLCP {
					intervals[closedIdx] = mf.openIntervals[top]
					break
				} else if nextLCP > superLCP {
					top++
					mf.openIntervals[top] = nextLCP | nextIntervalIdx
					nextIntervalIdx++
					intervals[closedIdx] = mf.openIntervals[top]
					break
				} else {
					intervals[closedIdx] = mf.openIntervals[top]
				}
			}
		}

		prevPos = nextPos
	}

	posData[prevPos] = mf.openIntervals[top]
	for ; top > 0; top-- {
		intervals[mf.openIntervals[top]&posMask] = mf.openIntervals[top-1]
	}
}

// findMatchesAt performs a destructive query at text position offset,
// writing up to len(out) matches (decreasing length order) and returning
// how many were written. Pass a zero-length out slice to "skip" (prime
// history without recording matches).
func (mf *matchFinder) findMatchesAt(offset int, out []match) int {
	intervals := mf.intervals
	posData := mf.posData

	ref := posData[offset]
	posData[offset] = 0

	superRef := intervals[ref&posMask]
	for superRef&lcpMask != 0 {
		intervals[ref&posMask] = uint32(offset) | visitedFlag
		ref = superRef
		superRef = intervals[ref&posMask]
	}

	if superRef == 0 {
		if ref != 0 {
			intervals[ref&posMask] = uint32(offset) | visitedFlag
		}
		return 0
	}

	matchPos := superRef & exclVisitedMask
	count := 0

	for {
		for {
			superRef = posData[matchPos]
			if superRef <= ref {
				break
			}
			matchPos = intervals[superRef&posMask] & exclVisitedMask
		}

		intervals[ref&posMask] = uint32(offset) | visitedFlag
		posData[matchPos] = ref

		if count < len(out) {
			matchOffset := offset - int(matchPos)
			if matchOffset <= maxOffset {
				out[count] = match{length: uint16(ref >> lcpShift), offset: uint16(matchOffset)}
				count++
			}
		}

		if superRef == 0 {
			break
		}
		ref = superRef
		matchPos = intervals[ref&posMask] & exclVisitedMask
	}

	return count
}

// skipMatches primes the interval tree's visited markers over
// [start, end) without recording any matches (used for the history
// region carried over from the prior block-group).
func (mf *matchFinder) skipMatches(start, end int) {
	var none [0]match
	for i := start; i < end; i++ {
		mf.findMatchesAt(i, none[:])
	}
}

// findAllMatches fills mf.matches[start..end) with up to matchesPerPosition
// candidates per position, clamped so no match crosses end-lastLiterals,
// and with the final lastMatchOffsetGuard positions forced empty so the
// optimal parser is always free to end the block on a literal.
func (mf *matchFinder) findAllMatches(start, end int) {
	for i := start; i < end; i++ {
		slot := mf.matches[i*matchesPerPosition : i*matchesPerPosition+matchesPerPosition]
		n := mf.findMatchesAt(i, slot)

		maxLen := (end - lastLiterals) - i
		if maxLen < 0 {
			maxLen = 0
		}

		for m := 0; m < matchesPerPosition; m++ {
			if m >= n || i > end-lastMatchOffsetGuard {
				slot[m] = match{}
			} else if int(slot[m].length) > maxLen {
				slot[m].length = uint16(maxLen)
			}
		}
	}
}

// matchesAt returns the (up to matchesPerPosition) candidate slice for position i.
func (mf *matchFinder) matchesAt(i int) []match {
	return mf.matches[i*matchesPerPosition : i*matchesPerPosition+matchesPerPosition]
}
