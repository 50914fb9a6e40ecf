package sadeflate

import (
	"bytes"
	"testing"
)

func TestBlockSplitterBelowMinSubBlockNeverSplits(t *testing.T) {
	window := bytes.Repeat([]byte("ab"), 1000) // 2000 bytes, well under splitMinSubBlock
	mf := newMatchFinder(len(window))
	mf.build(window)
	mf.findAllMatches(0, len(window))

	s := newBlockSplitter(len(window))
	splits := s.split(window, 0, len(window), maxSplitsLimit, mf)

	if len(splits) != 1 || splits[0] != len(window) {
		t.Fatalf("splits = %v, want a single split point at %d", splits, len(window))
	}
}

func TestBlockSplitterCoversFullRangeAscending(t *testing.T) {
	window := make([]byte, 200000)
	for i := range window {
		// Two distinct statistical halves so a split is plausible, without
		// asserting exactly where the splitter puts it.
		if i < len(window)/2 {
			window[i] = byte('a' + i%3)
		} else {
			window[i] = byte(i % 256)
		}
	}

	mf := newMatchFinder(len(window))
	mf.build(window)
	mf.findAllMatches(0, len(window))

	s := newBlockSplitter(len(window))
	splits := s.split(window, 0, len(window), maxSplitsLimit, mf)

	if len(splits) == 0 {
		t.Fatalf("split returned no split points")
	}
	if splits[len(splits)-1] != len(window) {
		t.Fatalf("last split point = %d, want %d", splits[len(splits)-1], len(window))
	}
	prev := 0
	for _, sp := range splits {
		if sp <= prev {
			t.Fatalf("split points not strictly ascending: %v", splits)
		}
		prev = sp
	}
	if len(splits) > maxSplitsLimit {
		t.Fatalf("split returned %d points, exceeding maxSplitsLimit %d", len(splits), maxSplitsLimit)
	}
}

func TestBlockSplitterRespectsMaxSplits(t *testing.T) {
	window := make([]byte, 400000)
	for i := range window {
		window[i] = byte(i % 251) // period-251 pattern, no byte repeats within a period
	}
	mf := newMatchFinder(len(window))
	mf.build(window)
	mf.findAllMatches(0, len(window))

	s := newBlockSplitter(len(window))
	splits := s.split(window, 0, len(window), 2, mf)

	if len(splits) > 2 {
		t.Fatalf("split returned %d points, want at most 2", len(splits))
	}
}
