// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate

/*
Package sadeflate implements an optimal DEFLATE-compatible block compressor
(RFC 1951). Given a window of input bytes it produces a bit-exact DEFLATE
bitstream that minimizes compressed size for that input: a suffix-array
based match finder feeds a backward-DP optimal parser, code lengths are
built with the Moffat-Katajainen algorithm and length-limited by Kraft
redistribution, and the result is emitted as dynamic, static, or (when
compression would not pay off) stored DEFLATE blocks.

Decoding is out of scope; output is meant to be read by any standards-
conforming inflater, including the standard library's compress/flate,
compress/zlib and compress/gzip.

# Compress

Options may be nil (defaults to a 1 MiB block size, raw DEFLATE framing):

	out, err := sadeflate.Compress(data, nil)
	out, err := sadeflate.Compress(data, &sadeflate.Options{Framing: sadeflate.FramingGzip})

# Streaming

NewWriter wraps an io.Writer and accepts input incrementally:

	w, err := sadeflate.NewWriter(dst, &sadeflate.Options{Framing: sadeflate.FramingZlib})
	_, err = w.Write(chunk)
	err = w.Close()
*/
package sadeflate
