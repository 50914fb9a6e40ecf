// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's libzultra.c zultra_stream_init /
// zultra_stream_set_dictionary / zultra_stream_compress / zultra_stream_end:
// a streaming compressor that accumulates input into a window of
// historySize bytes of carried-over history plus up to MaxBlockSize fresh
// bytes, compresses one block-group at a time, and carries the trailing
// historySize bytes of each group forward as the next group's history.

package sadeflate

import "io"

// Writer is a streaming sadeflate compressor. It buffers input up to
// Options.MaxBlockSize before compressing a block-group, and must be closed
// to flush the final (possibly partial) group and the framing footer.
type Writer struct {
	dst  io.Writer
	opts *Options

	window    []byte // historySize history + MaxBlockSize pending input
	historyN  int    // bytes of valid history at the front of window
	pendingN  int    // bytes of fresh input buffered after the history

	enc      *blockGroupEncoder
	checksum *frameChecksum

	headerWritten bool
	closed        bool
	totalIn       int
}

// NewWriter returns a Writer that writes a compressed stream to dst under
// opts (nil selects DefaultOptions()).
func NewWriter(dst io.Writer, opts *Options) (*Writer, error) {
	o, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		dst:      dst,
		opts:     o,
		window:   make([]byte, historySize+o.MaxBlockSize),
		enc:      acquireBlockGroupEncoder(historySize + o.MaxBlockSize),
		checksum: newFrameChecksum(o.Framing),
	}

	if len(o.Dictionary) > 0 {
		if err := w.SetDictionary(o.Dictionary); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// SetDictionary primes the writer's history with a preset dictionary. Must
// be called before the first Write.
func (w *Writer) SetDictionary(data []byte) error {
	if w.closed {
		return ErrStreamEnded
	}
	if w.totalIn > 0 || w.headerWritten {
		return ErrDictionaryAfterData
	}
	d := loadDictionary(data)
	copy(w.window[historySize-len(d.data):historySize], d.data)
	w.historyN = len(d.data)
	return nil
}

// Write buffers p, compressing and emitting full block-groups as they fill.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrStreamEnded
	}

	if err := w.emitHeaderOnce(); err != nil {
		return 0, err
	}

	total := 0
	for len(p) > 0 {
		free := w.opts.MaxBlockSize - w.pendingN
		n := len(p)
		if n > free {
			n = free
		}

		dst := w.window[historySize+w.pendingN : historySize+w.pendingN+n]
		copy(dst, p[:n])
		w.checksum.write(p[:n])
		w.pendingN += n
		w.totalIn += n
		total += n
		p = p[n:]

		if w.pendingN == w.opts.MaxBlockSize {
			if err := w.flushGroup(false); err != nil {
				return total, err
			}
		}
	}

	return total, nil
}

// Close flushes any buffered input as the final block-group, writes the
// framing footer (if any), and marks the stream closed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.emitHeaderOnce(); err != nil {
		return err
	}
	if err := w.flushGroup(true); err != nil {
		return err
	}

	footer := writeFooter(nil, w.opts.Framing, w.checksum.sum32(), w.totalIn)
	if len(footer) > 0 {
		if _, err := w.dst.Write(footer); err != nil {
			return err
		}
	}

	w.closed = true
	releaseBlockGroupEncoder(w.enc, historySize+w.opts.MaxBlockSize)
	w.enc = nil
	return nil
}

func (w *Writer) emitHeaderOnce() error {
	if w.headerWritten {
		return nil
	}
	w.headerWritten = true
	header := writeHeader(nil, w.opts.Framing, w.opts.Dictionary)
	if len(header) == 0 {
		return nil
	}
	_, err := w.dst.Write(header)
	return err
}

// flushGroup compresses the historyN bytes of history immediately preceding
// offset historySize plus the pendingN bytes of fresh input immediately
// following it, writes the result to dst, then carries the trailing
// historySize bytes of that range forward as the next group's history.
//
// Write always appends fresh input at a fixed offset (historySize+pendingN)
// regardless of historyN, so the valid range for this group is
// window[historySize-historyN : historySize+pendingN), not window[:n).
func (w *Writer) flushGroup(isFinal bool) error {
	n := w.historyN + w.pendingN
	if n == 0 {
		if isFinal {
			outBuf := make([]byte, 8)
			bw := newBitWriter(outBuf, 0)
			if err := writeFinalEmptyBlock(bw); err != nil {
				return err
			}
			_, err := w.dst.Write(outBuf[:bw.byteOffset()])
			return err
		}
		return nil
	}

	windowStart := historySize - w.historyN
	windowEnd := historySize + w.pendingN
	group := w.window[windowStart:windowEnd]

	outCap := 1 + n + (1+4)*(n/65535+2)
	outBuf := make([]byte, outCap)
	bw := newBitWriter(outBuf, 0)

	if err := w.enc.encodeGroup(group, w.historyN, bw, isFinal, maxSplitsLimit); err != nil {
		return err
	}
	if !isFinal {
		// Empty non-final stored block: byte-aligns the stream between groups.
		if err := bw.putBits(0, 3); err != nil {
			return err
		}
		if err := bw.flushByteBoundary(); err != nil {
			return err
		}
		if err := bw.putBits(0, 16); err != nil {
			return err
		}
		if err := bw.putBits(0xffff, 16); err != nil {
			return err
		}
	}
	if err := bw.flushByteBoundary(); err != nil {
		return err
	}

	if _, err := w.dst.Write(outBuf[:bw.byteOffset()]); err != nil {
		return err
	}

	carry := n
	if carry > historySize {
		carry = historySize
	}
	copy(w.window[historySize-carry:historySize], w.window[windowEnd-carry:windowEnd])
	w.historyN = carry
	w.pendingN = 0

	return nil
}
