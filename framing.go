// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's frame.h header/footer/checksum contract
// (zultra_frame_get_header_size / zultra_frame_encode_header /
// zultra_frame_init_checksum / zultra_frame_update_checksum /
// zultra_frame_encode_footer), reworked to emit the real RFC 1950 zlib and
// RFC 1952 gzip wire formats using the standard library's checksum
// implementations rather than zultra's own bespoke frame header.

package sadeflate

import (
	"encoding/binary"
	"hash"
	"hash/adler32"
	"hash/crc32"
)

const (
	zlibCMDeflate    = 8
	zlibCINFO32K     = 7 // window size 32K, log2(32K)-8
	gzipMagic1       = 0x1f
	gzipMagic2       = 0x8b
	gzipMethodDeflate = 8
	gzipFlagFDICT    = 1 << 5
	zlibFlagFDICT    = 1 << 5
)

// frameChecksum accumulates the checksum appropriate to Framing as raw
// (uncompressed) bytes are fed through it.
type frameChecksum struct {
	framing Framing
	adler   hash.Hash32
	crc     hash.Hash32
}

func newFrameChecksum(f Framing) *frameChecksum {
	fc := &frameChecksum{framing: f}
	switch f {
	case FramingZlib:
		fc.adler = adler32.New()
	case FramingGzip:
		fc.crc = crc32.NewIEEE()
	}
	return fc
}

func (fc *frameChecksum) write(p []byte) {
	switch fc.framing {
	case FramingZlib:
		fc.adler.Write(p)
	case FramingGzip:
		fc.crc.Write(p)
	}
}

func (fc *frameChecksum) sum32() uint32 {
	switch fc.framing {
	case FramingZlib:
		return fc.adler.Sum32()
	case FramingGzip:
		return fc.crc.Sum32()
	}
	return 0
}

// zlibFCHECK computes the two-byte zlib header's FCHECK bits so that
// (CMF<<8|FLG) is a multiple of 31, per RFC 1950 section 2.2.
func zlibFCHECK(cmf byte, flg byte) byte {
	flg &^= 0x1f
	for {
		if (uint16(cmf)<<8|uint16(flg))%31 == 0 {
			return flg
		}
		flg++
	}
}

// writeHeader emits the framing-specific header (empty for FramingRaw) into out.
func writeHeader(out []byte, f Framing, dictionary []byte) []byte {
	switch f {
	case FramingZlib:
		cmf := byte(zlibCMDeflate | (zlibCINFO32K << 4))
		var flg byte
		flg = byte(2 << 6) // FLEVEL = default compression
		if len(dictionary) > 0 {
			flg |= zlibFlagFDICT
		}
		flg = zlibFCHECK(cmf, flg)
		out = append(out, cmf, flg)
		if len(dictionary) > 0 {
			var dictID [4]byte
			binary.BigEndian.PutUint32(dictID[:], adler32.Checksum(dictionary))
			out = append(out, dictID[:]...)
		}
		return out
	case FramingGzip:
		out = append(out, gzipMagic1, gzipMagic2, gzipMethodDeflate, 0)
		out = append(out, 0, 0, 0, 0) // MTIME unset (reproducible output)
		out = append(out, 0, 0xff)    // XFL unset, OS unknown
		return out
	default:
		return out
	}
}

// writeFooter emits the framing-specific trailer (checksum + size where
// applicable) into out.
func writeFooter(out []byte, f Framing, checksum uint32, originalSize int) []byte {
	switch f {
	case FramingZlib:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], checksum)
		return append(out, b[:]...)
	case FramingGzip:
		var b [8]byte
		binary.LittleEndian.PutUint32(b[0:4], checksum)
		binary.LittleEndian.PutUint32(b[4:8], uint32(originalSize))
		return append(out, b[:]...)
	default:
		return out
	}
}

func headerSize(f Framing, dictionary []byte) int {
	switch f {
	case FramingZlib:
		if len(dictionary) > 0 {
			return 6
		}
		return 2
	case FramingGzip:
		return 10
	default:
		return 0
	}
}

func footerSize(f Framing) int {
	switch f {
	case FramingZlib:
		return 4
	case FramingGzip:
		return 8
	default:
		return 0
	}
}
