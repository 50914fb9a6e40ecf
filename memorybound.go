// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's libzultra.c zultra_memory_bound: header size, plus
// one worst-case (1 + 4 + 1)-byte stored-block overhead per split per
// block-group, plus the raw input size, plus one final block bit, plus
// the framing footer size.

package sadeflate

// MemoryBound returns an upper bound, in bytes, on the compressed size of
// inputSize bytes of input under opts, suitable for sizing an output buffer
// (Compress uses it as the initial capacity of its result). It never underestimates, even for incompressible
// input, because every sub-block can fall back to a stored (uncompressed)
// encoding.
func MemoryBound(inputSize int, opts *Options) (int, error) {
	o, err := normalizeOptions(opts)
	if err != nil {
		return 0, err
	}

	blockSize := o.MaxBlockSize
	numGroups := (inputSize + blockSize - 1) / blockSize
	if numGroups == 0 {
		numGroups = 1
	}

	bound := headerSize(o.Framing, o.Dictionary)
	bound += numGroups * (1 + 4 + 1) * maxSplitsLimit
	bound += inputSize + 1
	bound += footerSize(o.Framing)

	return bound, nil
}
