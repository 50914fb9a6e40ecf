// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's blockdeflate.c (zultra_block_evaluate_static_cost,
// zultra_block_evaluate_dynamic_cost, zultra_block_deflate,
// zultra_write_block_lwd) and libzultra.c's zultra_stream_compress driver
// loop for the split/evaluate/encode/stored-fallback sequencing around one
// block-group.

package sadeflate

// evaluateStaticCost returns the total bit cost (plus the 3-bit block header)
// of encoding the tallied entropy under the fixed RFC 1951 static tables.
func evaluateStaticCost(lits, offs *huffmanEncoder) int {
	cost := 0
	for i := 0; i < matchLenSymStart; i++ {
		cost += lits.freq[i] * int(staticLiteralCodeLengths[i])
	}
	for i := matchLenSymStart; i < matchLenSymStart+numMatchLenSyms; i++ {
		cost += lits.freq[i] * (int(staticLiteralCodeLengths[i]) + int(revMatchSymbolBits[i-matchLenSymStart]))
	}
	for i := 0; i < numOffsetSyms; i++ {
		cost += offs.freq[i] * (5 + int(revOffsetSymbolBits[i]))
	}
	return cost + 3
}

// evaluateDynamicCost returns the total bit cost (codes + dynamic table
// header + 3-bit block header) of encoding the tallied entropy under lits'
// and offs' own code lengths, which must already be built.
func evaluateDynamicCost(lits, offs *huffmanEncoder, scratchTables *huffmanEncoder) int {
	cost := 0
	for i := 0; i < matchLenSymStart; i++ {
		cost += lits.freq[i] * int(lits.codeLength[i])
	}
	for i := matchLenSymStart; i < matchLenSymStart+numMatchLenSyms; i++ {
		cost += lits.freq[i] * (int(lits.codeLength[i]) + int(revMatchSymbolBits[i-matchLenSymStart]))
	}
	for i := 0; i < numOffsetSyms; i++ {
		cost += offs.freq[i] * (int(offs.codeLength[i]) + int(revOffsetSymbolBits[i]))
	}

	nLiteralSyms := definedVarLengthsCount(lits.codeLength, matchLenSymStart)
	nOffsetSyms := definedVarLengthsCount(offs.codeLength, 1)

	codeLength := make([]uint8, nLiteralSyms+nOffsetSyms)
	copy(codeLength, lits.codeLength[:nLiteralSyms])
	copy(codeLength[nLiteralSyms:], offs.codeLength[:nOffsetSyms])

	scratchTables.reset(0)
	_, _ = processVarLengths(codeLength, scratchTables, maxCodesMask, rleCount, nil)
	scratchTables.estimateDynamicCodeLengths()

	cost += 5 + 5 + 4
	cost += numCodeLenBits * scratchTables.rawTableSize()

	tableBits, _ := processVarLengths(codeLength, scratchTables, maxCodesMask, rleMeasure, nil)
	cost += tableBits

	return cost + 3
}

const maxCodesMask = maskAllow16 | maskAllow17 | maskAllow18

// writeBlockData emits the token stream for [start, end) under bestMatch,
// plus the trailing end-of-block marker. Grounded on zultra_write_block_lwd.
func writeBlockData(window []byte, start, end int, bestMatch []match, lits, dists *huffmanEncoder, w *bitWriter) error {
	for i := start; i < end; {
		m := bestMatch[i]
		if int(m.length) >= minMatchSize {
			if int(m.offset) < minOffset || int(m.offset) > maxOffset {
				return ErrCompressInternal
			}
			if err := writeMatchLength(lits, int(m.length)-minMatchSize, w); err != nil {
				return err
			}
			if err := writeOffset(dists, int(m.offset), w); err != nil {
				return err
			}
			i += int(m.length)
		} else {
			if err := lits.writeCodeword(int(window[i]), w); err != nil {
				return err
			}
			i++
		}
	}
	return lits.writeCodeword(eobMarkerSym, w)
}

func writeMatchLength(lits *huffmanEncoder, encodedLen int, w *bitWriter) error {
	if encodedLen > 255 {
		encodedLen = 255
	}
	sym := int(matchLenSymbol[encodedLen])
	base := int(matchLenBase[encodedLen])
	extra := int(matchLenExtraBits[encodedLen])
	if err := lits.writeCodeword(sym, w); err != nil {
		return err
	}
	return w.putBits(uint32(encodedLen-base), extra)
}

// writeOffset emits the offset codeword (from the distance encoder, dists)
// plus its extra bits.
func writeOffset(dists *huffmanEncoder, offset int, w *bitWriter) error {
	idx := offsetTableIndex(offset)
	sym := int(offsetSymbol[idx])
	base := int(offsetBase[idx])
	extra := int(offsetExtraBits[idx])
	if err := dists.writeCodeword(sym, w); err != nil {
		return err
	}
	return w.putBits(uint32(offset-base), extra)
}

// blockGroupEncoder holds the scratch state reused across the sub-blocks of
// one block-group: the match finder, DP parser, splitter, and the Huffman
// encoders, which are reset and rebuilt for each sub-block.
type blockGroupEncoder struct {
	mf        *matchFinder
	parser    *parser
	splitter  *blockSplitter
	literals  *huffmanEncoder
	offsets   *huffmanEncoder
	tables    *huffmanEncoder
	optLits   *huffmanEncoder
	optOffs   *huffmanEncoder
	scratch   *huffmanEncoder
	codeLenBuf []uint8
}

func newBlockGroupEncoder(capacity int) *blockGroupEncoder {
	return &blockGroupEncoder{
		mf:       newMatchFinder(capacity),
		parser:   newParser(capacity),
		splitter: newBlockSplitter(capacity),
		literals: newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0),
		offsets:  newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0),
		tables:   newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0),
		optLits:  newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0),
		optOffs:  newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0),
		scratch:  newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0),
	}
}

// encodeGroup compresses window[historyLen:len(window)) (with
// window[:historyLen) as carried-over history available to matches) into w,
// splitting into sub-blocks, choosing per sub-block between static, dynamic,
// and stored encodings, and marking isFinal on the very last sub-block.
func (bg *blockGroupEncoder) encodeGroup(window []byte, historyLen int, w *bitWriter, isFinal bool, maxSplits int) error {
	n := len(window)
	if n == historyLen {
		if isFinal {
			return writeFinalEmptyBlock(w)
		}
		return nil
	}

	bg.mf.build(window)
	if historyLen > 0 {
		bg.mf.skipMatches(0, historyLen)
	}
	bg.mf.findAllMatches(historyLen, n)

	splits := bg.splitter.split(window, historyLen, n-historyLen, maxSplits, bg.mf)

	start := historyLen
	for idx, splitEnd := range splits {
		size := splitEnd - start
		last := idx == len(splits)-1 && isFinal

		if err := bg.encodeSubBlock(window, start, size, w, last); err != nil {
			return err
		}
		start = splitEnd
	}
	return nil
}

// encodeSubBlock picks the cheaper of static/dynamic encoding for
// window[start:start+size), falling back to one or more stored blocks if
// neither fits within size (pathological incompressible input, or a coding
// mistake that must never grow the output unboundedly).
func (bg *blockGroupEncoder) encodeSubBlock(window []byte, start, size int, w *bitWriter, isFinal bool) error {
	end := start + size

	staticCost, dynamicCost := evaluateCosts(window, start, end, bg.mf)
	isDynamic := dynamicCost < staticCost

	checkpoint := w.save()

	if err := w.putBits(boolBit(isFinal), 1); err != nil {
		return err
	}
	btype := uint32(1)
	if isDynamic {
		btype = 2
	}
	if err := w.putBits(btype, 2); err != nil {
		return err
	}

	prevOffset := w.byteOffset()

	var encErr error
	if isDynamic {
		encErr = bg.encodeDynamicBlock(window, start, end)
		if encErr == nil {
			encErr = bg.writeDynamicTableHeader(w)
		}
	} else {
		encErr = bg.encodeStaticBlock(window, start, end)
	}

	if encErr == nil {
		if err := writeBlockData(window, start, end, bg.parser.bestMatch, bg.literals, bg.offsets, w); err != nil {
			encErr = err
		}
	}

	if encErr != nil || w.byteOffset()-prevOffset > size {
		w.restore(checkpoint)
		return writeStoredSubBlock(window, start, size, w, isFinal)
	}

	return nil
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// encodeStaticBlock builds the fixed RFC 1951 static tables, then
// re-optimizes the parse using their real bit costs (mirrors the
// nIsDynamic=0 branch of zultra_block_deflate).
func (bg *blockGroupEncoder) encodeStaticBlock(window []byte, start, end int) error {
	bg.literals.reset(0)
	bg.offsets.reset(0)
	copy(bg.literals.codeLength, staticLiteralCodeLengths[:])
	copy(bg.offsets.codeLength, staticOffsetCodeLengths[:])
	bg.literals.buildStaticCodewords()
	bg.offsets.buildStaticCodewords()

	cm := &costModel{literals: bg.literals, offsets: bg.offsets}
	bg.parser.optimize(window, start, end, bg.mf, cm)
	return nil
}

// encodeDynamicBlock runs the full convergence loop (initial greedy entropy,
// tentative tables, repeated optimize/re-tally passes, post-optimization,
// RLE-friendliness perturbation, and final code-length table selection),
// mirroring the nIsDynamic=1 branch of zultra_block_deflate. It writes
// nothing: writeDynamicTableHeader emits the table header and
// writeBlockData the token stream.
func (bg *blockGroupEncoder) encodeDynamicBlock(window []byte, start, end int) error {
	const convergencePasses = 3

	bg.literals.reset(0)
	bg.offsets.reset(0)
	greedyEntropy(window, start, end, bg.mf, bg.literals, bg.offsets)

	bg.literals.buildDynamicCodewords()
	bg.offsets.buildDynamicCodewords()

	for j := 0; j < convergencePasses; j++ {
		for i := range bg.literals.codeLength {
			if bg.literals.codeLength[i] == 0 {
				bg.literals.codeLength[i] = 9
			}
		}
		for i := range bg.offsets.codeLength {
			if bg.offsets.codeLength[i] == 0 {
				bg.offsets.codeLength[i] = 6
			}
		}

		cm := &costModel{literals: bg.literals, offsets: bg.offsets}
		bg.parser.optimize(window, start, end, bg.mf, cm)

		for i := range bg.literals.freq {
			bg.literals.freq[i] = 0
		}
		for i := range bg.offsets.freq {
			bg.offsets.freq[i] = 0
		}
		finalEntropy(window, start, end, bg.parser.bestMatch, bg.literals, bg.offsets)

		if j == convergencePasses-1 {
			nOffsetLens := 0
			for i := 0; nOffsetLens < 2 && i < numOffsetSyms-2; i++ {
				if bg.offsets.freq[i] != 0 {
					nOffsetLens++
				}
			}
			if nOffsetLens == 0 {
				bg.offsets.freq[0] = 1
				bg.offsets.freq[1] = 1
			} else if nOffsetLens == 1 {
				if bg.offsets.freq[0] != 0 {
					bg.offsets.freq[1] = 1
				} else {
					bg.offsets.freq[0] = 1
				}
			}
		}

		bg.literals.buildDynamicCodewords()
		bg.offsets.buildDynamicCodewords()
	}

	postOptimize(window, start, end, bg.parser.bestMatch, bg.literals, bg.offsets)
	return nil
}

// writeDynamicTableHeader picks between the as-built tables and an
// RLE-friendliness-optimized variant, searches the cheapest code-length RLE
// mask, and emits HLIT/HDIST/HCLEN plus the raw and RLE-encoded code-length
// tables to w.
func (bg *blockGroupEncoder) writeDynamicTableHeader(w *bitWriter) error {
	curCost := evaluateDynamicCost(bg.literals, bg.offsets, bg.scratch)

	optLitFreq := optimizeForRLE(bg.literals.freq)
	optOffFreq := optimizeForRLE(bg.offsets.freq)

	copyEncoder(bg.optLits, bg.literals)
	copyEncoder(bg.optOffs, bg.offsets)
	copy(bg.optLits.freq, optLitFreq)
	copy(bg.optOffs.freq, optOffFreq)
	bg.optLits.buildDynamicCodewords()
	bg.optOffs.buildDynamicCodewords()

	optCost := evaluateDynamicCost(bg.optLits, bg.optOffs, bg.scratch)

	// Copy the winning table's state into bg.literals/bg.offsets in place
	// (never repoint the fields themselves) so bg.optLits/bg.optOffs stay
	// independent scratch objects across sub-blocks.
	if optCost < curCost {
		copyEncoder(bg.literals, bg.optLits)
		copyEncoder(bg.offsets, bg.optOffs)
	}

	nLiteralSyms := definedVarLengthsCount(bg.literals.codeLength, matchLenSymStart)
	nOffsetSyms := definedVarLengthsCount(bg.offsets.codeLength, 1)

	if cap(bg.codeLenBuf) < nLiteralSyms+nOffsetSyms {
		bg.codeLenBuf = make([]uint8, nLiteralSyms+nOffsetSyms)
	}
	codeLength := bg.codeLenBuf[:nLiteralSyms+nOffsetSyms]
	copy(codeLength, bg.literals.codeLength[:nLiteralSyms])
	copy(codeLength[nLiteralSyms:], bg.offsets.codeLength[:nOffsetSyms])

	mask, _, err := searchBestRLEMask(codeLength, bg.tables)
	if err != nil {
		return err
	}

	nCodeLenSyms := bg.tables.rawTableSize()
	if nLiteralSyms > numValidLiteralSyms || nOffsetSyms > numValidOffsetSyms || nCodeLenSyms > numCodeLenSyms {
		return ErrCompressInternal
	}

	if err := w.putBits(uint32(nLiteralSyms-matchLenSymStart), 5); err != nil {
		return err
	}
	if err := w.putBits(uint32(nOffsetSyms-1), 5); err != nil {
		return err
	}
	if err := w.putBits(uint32(nCodeLenSyms-4), 4); err != nil {
		return err
	}

	if err := bg.tables.writeRawTable(numCodeLenBits, nCodeLenSyms, w); err != nil {
		return err
	}
	if _, err := processVarLengths(codeLength, bg.tables, mask, rleEmit, w); err != nil {
		return err
	}

	return nil
}

func copyEncoder(dst, src *huffmanEncoder) {
	copy(dst.codeLength, src.codeLength)
	copy(dst.codeWord, src.codeWord)
}

// writeStoredSubBlock writes one or more RFC 1951 BTYPE=00 stored blocks
// covering window[start:start+size), chunked to the 65535-byte stored-block
// limit, with isFinal applying only to the very last chunk.
func writeStoredSubBlock(window []byte, start, size int, w *bitWriter, isFinal bool) error {
	remaining := size
	offset := start

	for remaining > 0 {
		chunk := remaining
		subFinal := isFinal
		if chunk > 65535 {
			chunk = 65535
			subFinal = false
		}

		if err := w.putBits(boolBit(subFinal), 1); err != nil {
			return err
		}
		if err := w.putBits(0, 2); err != nil {
			return err
		}
		if err := w.flushByteBoundary(); err != nil {
			return err
		}

		if err := w.putBits(uint32(chunk&0xff), 8); err != nil {
			return err
		}
		if err := w.putBits(uint32((chunk>>8)&0xff), 8); err != nil {
			return err
		}
		if err := w.putBits(uint32((chunk&0xff)^0xff), 8); err != nil {
			return err
		}
		if err := w.putBits(uint32(((chunk>>8)&0xff)^0xff), 8); err != nil {
			return err
		}

		for i := 0; i < chunk; i++ {
			if err := w.putBits(uint32(window[offset+i]), 8); err != nil {
				return err
			}
		}

		offset += chunk
		remaining -= chunk
	}

	return nil
}

// writeFinalEmptyBlock emits a final static (BTYPE=01) block holding only
// the end-of-block code (seven zero bits under the fixed table).
func writeFinalEmptyBlock(w *bitWriter) error {
	if err := w.putBits(1, 1); err != nil {
		return err
	}
	if err := w.putBits(1, 2); err != nil {
		return err
	}
	if err := w.putBits(0, int(staticLiteralCodeLengths[eobMarkerSym])); err != nil {
		return err
	}
	return w.flushByteBoundary()
}

// evaluateCosts returns the static and dynamic bit-cost estimates for a
// candidate sub-block, tallied once under a greedy parse and then scored
// under both the fixed RFC 1951 tables and a tentative dynamic table built
// from the same frequencies.
func evaluateCosts(window []byte, start, end int, mf *matchFinder) (staticCost, dynamicCost int) {
	lits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	offs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	greedyEntropy(window, start, end, mf, lits, offs)

	staticCost = evaluateStaticCost(lits, offs)

	dynLits := newHuffmanEncoder(numLiteralSyms, maxLitDistCodeLen, 0)
	dynOffs := newHuffmanEncoder(numOffsetSyms, maxLitDistCodeLen, 0)
	copy(dynLits.freq, lits.freq)
	copy(dynOffs.freq, offs.freq)
	dynLits.estimateDynamicCodeLengths()
	dynOffs.estimateDynamicCodeLengths()

	tables := newHuffmanEncoder(numCodeLenSyms, maxCodeLenCodeLen, 0)
	dynamicCost = evaluateDynamicCost(dynLits, dynOffs, tables)
	return
}
