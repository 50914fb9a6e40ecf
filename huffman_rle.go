// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's huffman/huffencoder.c update_var_lengths_entropy /
// get_var_lengths_size / write_var_lengths trio, unified here into a
// single state machine parameterized by action, so the mask-search cost
// estimate can never diverge from what is actually emitted.

package sadeflate

// rleAction selects what processVarLengths does with each run it finds.
type rleAction int

const (
	rleCount   rleAction = iota // tally into a code-length-alphabet frequency table
	rleMeasure                  // accumulate a bit cost
	rleEmit                     // write codewords/extra bits to a bit writer
)

// Enable-mask bits: bit0 = symbol 16 allowed, bit1 = symbol 17, bit2 =
// symbol 18; bits 3/4 suppress the run==7/run==8 degenerate two-16s split.
const (
	maskAllow16        = 1 << 0
	maskAllow17        = 1 << 1
	maskAllow18        = 1 << 2
	maskSuppressSplit7 = 1 << 3
	maskSuppressSplit8 = 1 << 4
)

// processVarLengths walks the joint literal+distance code-length vector
// exactly as the code-length RLE alphabet (symbols 0-18) would encode it,
// and performs action at each emitted code-length-alphabet symbol.
func processVarLengths(codeLength []uint8, tableEnc *huffmanEncoder, mask uint32, action rleAction, w *bitWriter) (bits int, err error) {
	n := len(codeLength)
	i := 0

	use := func(sym int, extra uint32, extraBits int) error {
		switch action {
		case rleCount:
			tableEnc.freq[sym]++
		case rleMeasure:
			bits += int(tableEnc.codeLength[sym]) + extraBits
		case rleEmit:
			if err := tableEnc.writeCodeword(sym, w); err != nil {
				return err
			}
			if extraBits > 0 {
				if err := w.putBits(extra, extraBits); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for i < n {
		runLen := 1
		for i+runLen < n && codeLength[i+runLen] == codeLength[i] {
			runLen++
		}

		if codeLength[i] == 0 {
			if runLen >= 3 {
				for runLen >= 11 && mask&maskAllow18 != 0 {
					chunk := runLen
					if chunk > 138 {
						chunk = 138
					}
					if err = use(18, uint32(chunk-11), 7); err != nil {
						return
					}
					runLen -= chunk
					i += chunk
				}
				for runLen >= 3 && mask&maskAllow17 != 0 {
					chunk := runLen
					if chunk > 10 {
						chunk = 10
					}
					if err = use(17, uint32(chunk-3), 3); err != nil {
						return
					}
					runLen -= chunk
					i += chunk
				}
				if runLen > 0 {
					runLen--
					if err = use(int(codeLength[i]), 0, 0); err != nil {
						return
					}
					i++
				}
			} else {
				runLen--
				if err = use(int(codeLength[i]), 0, 0); err != nil {
					return
				}
				i++
			}
		} else {
			runLen--
			cl := int(codeLength[i])
			if cl > 15 {
				cl = 15
			}
			if err = use(cl, 0, 0); err != nil {
				return
			}
			i++

			switch {
			case runLen == 7 && mask&maskAllow16 != 0 && mask&maskSuppressSplit7 == 0:
				if err = use(16, uint32(4-3), 2); err != nil {
					return
				}
				runLen -= 4
				i += 4
				if err = use(16, uint32(3-3), 2); err != nil {
					return
				}
				runLen -= 3
				i += 3
			case runLen == 8 && mask&maskAllow16 != 0 && mask&maskSuppressSplit8 == 0:
				if err = use(16, uint32(4-3), 2); err != nil {
					return
				}
				runLen -= 4
				i += 4
				if err = use(16, uint32(4-3), 2); err != nil {
					return
				}
				runLen -= 4
				i += 4
			}

			for runLen >= 3 && mask&maskAllow16 != 0 {
				chunk := runLen
				if chunk > 6 {
					chunk = 6
				}
				if err = use(16, uint32(chunk-3), 2); err != nil {
					return
				}
				runLen -= chunk
				i += chunk
			}
		}
	}

	return bits, nil
}

// searchBestRLEMask tries enable-masks 0..31 (step 1 up to 7, then +2) and
// returns the mask minimizing the total cost (code-length table header +
// RLE-encoded content) of transmitting codeLength under tableEnc, along
// with that cost in bits. tableEnc's codewords are left built for the
// winning mask.
func searchBestRLEMask(codeLength []uint8, tableEnc *huffmanEncoder) (bestMask uint32, bestBits int, err error) {
	bestBits = -1

	for mask := uint32(0); mask <= 31; {
		tableEnc.reset(0)
		if _, err = processVarLengths(codeLength, tableEnc, mask, rleCount, nil); err != nil {
			return 0, 0, err
		}
		tableEnc.buildDynamicCodewords()

		rawSyms := tableEnc.rawTableSize()
		headerBits := rawSyms * numCodeLenBits

		contentBits, err2 := processVarLengths(codeLength, tableEnc, mask, rleMeasure, nil)
		if err2 != nil {
			return 0, 0, err2
		}

		total := headerBits + contentBits
		if bestBits < 0 || total < bestBits {
			bestBits = total
			bestMask = mask
		}

		if mask < 7 {
			mask++
		} else {
			mask += 2
		}
	}

	// Rebuild the winning mask's frequencies/codewords for the caller to emit with.
	tableEnc.reset(0)
	if _, err = processVarLengths(codeLength, tableEnc, bestMask, rleCount, nil); err != nil {
		return 0, 0, err
	}
	tableEnc.buildDynamicCodewords()

	return bestMask, bestBits, nil
}
