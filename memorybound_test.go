package sadeflate

import "testing"

func TestMemoryBoundNeverUnderestimatesRaw(t *testing.T) {
	opts := &Options{MaxBlockSize: minBlockSize, Framing: FramingRaw}
	for _, n := range []int{0, 1, 100, minBlockSize, minBlockSize + 1, 5 * minBlockSize} {
		bound, err := MemoryBound(n, opts)
		if err != nil {
			t.Fatalf("MemoryBound(%d): %v", n, err)
		}
		if bound < n {
			t.Fatalf("MemoryBound(%d) = %d, must be >= input size", n, bound)
		}
	}
}

func TestMemoryBoundAccountsForFraming(t *testing.T) {
	raw, err := MemoryBound(1000, &Options{MaxBlockSize: minBlockSize, Framing: FramingRaw})
	if err != nil {
		t.Fatal(err)
	}
	gzip, err := MemoryBound(1000, &Options{MaxBlockSize: minBlockSize, Framing: FramingGzip})
	if err != nil {
		t.Fatal(err)
	}
	if gzip <= raw {
		t.Fatalf("gzip bound %d should exceed raw bound %d (header+footer overhead)", gzip, raw)
	}
	if gzip-raw != headerSize(FramingGzip, nil)+footerSize(FramingGzip) {
		t.Fatalf("gzip-raw delta = %d, want %d", gzip-raw, headerSize(FramingGzip, nil)+footerSize(FramingGzip))
	}
}

func TestMemoryBoundRejectsInvalidOptions(t *testing.T) {
	_, err := MemoryBound(100, &Options{MaxBlockSize: 1})
	if err != ErrBlockSizeOutOfRange {
		t.Fatalf("err = %v, want ErrBlockSizeOutOfRange", err)
	}
}

func TestMemoryBoundNilOptionsUsesDefaults(t *testing.T) {
	bound, err := MemoryBound(1024, nil)
	if err != nil {
		t.Fatalf("MemoryBound(nil): %v", err)
	}
	if bound < 1024 {
		t.Fatalf("bound = %d, too small", bound)
	}
}
