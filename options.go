// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate

package sadeflate

// Framing selects the optional wrapper placed around the raw DEFLATE
// bitstream. Only one framing may be selected at a time.
type Framing int

const (
	// FramingRaw emits a bare RFC 1951 DEFLATE stream, no wrapper.
	FramingRaw Framing = iota
	// FramingZlib wraps the stream in an RFC 1950 zlib header/Adler-32 trailer.
	FramingZlib
	// FramingGzip wraps the stream in an RFC 1952 gzip header/CRC-32+ISIZE trailer.
	FramingGzip
)

const (
	minBlockSize     = 1 << 15 // 32768
	maxBlockSize     = 1 << 21 // 2097152
	defaultBlockSize = 1 << 20 // 1048576

	historySize    = 1 << 15 // 32768, dictionary/history capacity (H)
	maxDictionary  = historySize
	maxSplitsLimit = 64
)

// Options configures the compressor (block size, framing, preset dictionary).
type Options struct {
	// MaxBlockSize bounds bytes compressed per block-group; 32768..2097152, default 1048576.
	MaxBlockSize int
	// Framing selects the optional zlib/gzip wrapper. Default FramingRaw.
	Framing Framing
	// Dictionary is an optional preset dictionary (<=32768 bytes) primed into history.
	Dictionary []byte
}

// DefaultOptions returns options for a 1 MiB block size with raw DEFLATE framing.
func DefaultOptions() *Options {
	return &Options{MaxBlockSize: defaultBlockSize, Framing: FramingRaw}
}

// normalizeOptions validates opts and fills in defaults, returning a private copy.
func normalizeOptions(opts *Options) (*Options, error) {
	if opts == nil {
		return DefaultOptions(), nil
	}

	out := *opts
	if out.MaxBlockSize == 0 {
		out.MaxBlockSize = defaultBlockSize
	}
	if out.MaxBlockSize < minBlockSize || out.MaxBlockSize > maxBlockSize {
		return nil, ErrBlockSizeOutOfRange
	}
	if len(out.Dictionary) > maxDictionary {
		return nil, ErrDictionaryTooLarge
	}
	if out.Framing != FramingRaw && out.Framing != FramingZlib && out.Framing != FramingGzip {
		return nil, ErrFramingFlagConflict
	}

	return &out, nil
}
