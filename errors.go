// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate

package sadeflate

import "errors"

// Sentinel errors for the compressor and its streaming writer.
var (
	// ErrBlockSizeOutOfRange is returned when MaxBlockSize falls outside [32768, 2097152].
	ErrBlockSizeOutOfRange = errors.New("block size out of range")
	// ErrDictionaryTooLarge is returned when a preset dictionary exceeds 32768 bytes.
	ErrDictionaryTooLarge = errors.New("dictionary exceeds 32768 bytes")
	// ErrOutputCapacity is returned when the bit writer would exceed its output capacity.
	ErrOutputCapacity = errors.New("output capacity exceeded")
	// ErrFramingFlagConflict is returned when Options.Framing is not FramingRaw, FramingZlib or FramingGzip.
	ErrFramingFlagConflict = errors.New("only one framing flag may be set")
	// ErrStreamEnded is returned when Write or SetDictionary is called after Close.
	ErrStreamEnded = errors.New("stream already closed")
	// ErrDictionaryAfterData is returned when SetDictionary is called after compression has begun.
	ErrDictionaryAfterData = errors.New("dictionary must be set before the first Write")

	// ErrCompressInternal is returned when the compressor hits an internal invariant violation
	// (e.g. invalid match state, invalid window state). Callers can use errors.Is(err, sadeflate.ErrCompressInternal).
	ErrCompressInternal = errors.New("internal compressor error")
)
