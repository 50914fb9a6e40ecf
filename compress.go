// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's libzultra.c zultra_memory_compress: a one-shot
// wrapper over the streaming Writer for callers who already hold the
// whole input in memory.

package sadeflate

import "bytes"

// Compress compresses src in one call. opts may be nil (uses DefaultOptions()).
func Compress(src []byte, opts *Options) ([]byte, error) {
	o, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}

	bound, err := MemoryBound(len(src), o)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, bound))

	w, err := NewWriter(buf, o)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
