// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's huffman/bitwriter.c: an LSB-first bit accumulator
// over a byte buffer, with save/restore used to roll back a
// compressed-block attempt and re-emit a stored block.

package sadeflate

// bitWriter packs bits LSB-first into out, bounded by len(out) bytes.
type bitWriter struct {
	out      []byte
	offset   int
	bitCount int
	bits     uint32
}

func newBitWriter(out []byte, offset int) *bitWriter {
	return &bitWriter{out: out, offset: offset}
}

// bitWriterState is a snapshot used to atomically rewind a failed attempt.
type bitWriterState struct {
	offset   int
	bitCount int
	bits     uint32
}

func (w *bitWriter) save() bitWriterState {
	return bitWriterState{offset: w.offset, bitCount: w.bitCount, bits: w.bits}
}

func (w *bitWriter) restore(s bitWriterState) {
	w.offset = s.offset
	w.bitCount = s.bitCount
	w.bits = s.bits
}

// putBits appends the low nBits of value, 0 <= nBits <= 16, flushing whole
// bytes as they accumulate. Returns ErrOutputCapacity on overflow.
func (w *bitWriter) putBits(value uint32, nBits int) error {
	w.bits |= value << uint(w.bitCount)
	w.bitCount += nBits

	for w.bitCount >= 8 {
		if w.offset >= len(w.out) {
			return ErrOutputCapacity
		}
		w.out[w.offset] = byte(w.bits)
		w.offset++
		w.bits >>= 8
		w.bitCount -= 8
	}

	return nil
}

// flushByteBoundary pads any pending 1-7 bits into one final zero-padded byte.
func (w *bitWriter) flushByteBoundary() error {
	if w.bitCount > 0 {
		if w.offset >= len(w.out) {
			return ErrOutputCapacity
		}
		w.out[w.offset] = byte(w.bits & ((1 << uint(w.bitCount)) - 1))
		w.offset++
		w.bits = 0
		w.bitCount = 0
	}
	return nil
}

// byteOffset returns the current byte index (bits already flushed).
func (w *bitWriter) byteOffset() int {
	return w.offset
}
