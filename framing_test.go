package sadeflate

import (
	"encoding/binary"
	"hash/adler32"
	"hash/crc32"
	"testing"
)

func TestWriteHeaderRawIsEmpty(t *testing.T) {
	out := writeHeader(nil, FramingRaw, nil)
	if len(out) != 0 {
		t.Fatalf("raw framing header should be empty, got %v", out)
	}
}

func TestWriteHeaderZlibChecksumDivisibleBy31(t *testing.T) {
	out := writeHeader(nil, FramingZlib, nil)
	if len(out) != 2 {
		t.Fatalf("zlib header without dictionary should be 2 bytes, got %d", len(out))
	}
	val := uint16(out[0])<<8 | uint16(out[1])
	if val%31 != 0 {
		t.Fatalf("zlib CMF/FLG %#04x not a multiple of 31", val)
	}
	if out[0]&0x0f != zlibCMDeflate {
		t.Fatalf("CM nibble = %d, want %d", out[0]&0x0f, zlibCMDeflate)
	}
}

func TestWriteHeaderZlibWithDictionary(t *testing.T) {
	dict := []byte("preset dictionary bytes")
	out := writeHeader(nil, FramingZlib, dict)
	if len(out) != 6 {
		t.Fatalf("zlib header with dictionary should be 6 bytes, got %d", len(out))
	}
	if out[1]&zlibFlagFDICT == 0 {
		t.Fatalf("FDICT flag not set despite a dictionary")
	}
	gotID := binary.BigEndian.Uint32(out[2:6])
	wantID := adler32.Checksum(dict)
	if gotID != wantID {
		t.Fatalf("DICTID = %#x, want %#x", gotID, wantID)
	}
}

func TestWriteHeaderGzipMagic(t *testing.T) {
	out := writeHeader(nil, FramingGzip, nil)
	if len(out) != 10 {
		t.Fatalf("gzip header should be 10 bytes, got %d", len(out))
	}
	if out[0] != gzipMagic1 || out[1] != gzipMagic2 {
		t.Fatalf("gzip magic bytes = %#x %#x, want 0x1f 0x8b", out[0], out[1])
	}
	if out[2] != gzipMethodDeflate {
		t.Fatalf("gzip CM = %d, want %d", out[2], gzipMethodDeflate)
	}
}

func TestWriteFooterZlibIsAdler32(t *testing.T) {
	data := []byte("round trip me")
	h := adler32.New()
	h.Write(data)
	want := h.Sum32()

	footer := writeFooter(nil, FramingZlib, want, len(data))
	if len(footer) != 4 {
		t.Fatalf("zlib footer should be 4 bytes, got %d", len(footer))
	}
	if binary.BigEndian.Uint32(footer) != want {
		t.Fatalf("zlib footer checksum mismatch")
	}
}

func TestWriteFooterGzipIsCRC32PlusISIZE(t *testing.T) {
	data := []byte("round trip me, gzip edition")
	want := crc32.ChecksumIEEE(data)

	footer := writeFooter(nil, FramingGzip, want, len(data))
	if len(footer) != 8 {
		t.Fatalf("gzip footer should be 8 bytes, got %d", len(footer))
	}
	if binary.LittleEndian.Uint32(footer[0:4]) != want {
		t.Fatalf("gzip CRC32 mismatch")
	}
	if binary.LittleEndian.Uint32(footer[4:8]) != uint32(len(data)) {
		t.Fatalf("gzip ISIZE mismatch")
	}
}

func TestFrameChecksumTracksRawBytes(t *testing.T) {
	fc := newFrameChecksum(FramingGzip)
	data := []byte("streamed in two pieces")
	fc.write(data[:10])
	fc.write(data[10:])
	if fc.sum32() != crc32.ChecksumIEEE(data) {
		t.Fatalf("incremental CRC32 does not match whole-buffer CRC32")
	}
}
