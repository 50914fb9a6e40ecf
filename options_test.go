package sadeflate

import "testing"

func TestNormalizeOptionsNilUsesDefaults(t *testing.T) {
	o, err := normalizeOptions(nil)
	if err != nil {
		t.Fatalf("normalizeOptions(nil): %v", err)
	}
	if o.MaxBlockSize != defaultBlockSize || o.Framing != FramingRaw {
		t.Fatalf("defaults = %+v, want MaxBlockSize=%d Framing=Raw", o, defaultBlockSize)
	}
}

func TestNormalizeOptionsZeroBlockSizeDefaults(t *testing.T) {
	o, err := normalizeOptions(&Options{})
	if err != nil {
		t.Fatalf("normalizeOptions: %v", err)
	}
	if o.MaxBlockSize != defaultBlockSize {
		t.Fatalf("MaxBlockSize = %d, want %d", o.MaxBlockSize, defaultBlockSize)
	}
}

func TestNormalizeOptionsBlockSizeOutOfRange(t *testing.T) {
	cases := []int{1, minBlockSize - 1, maxBlockSize + 1}
	for _, n := range cases {
		_, err := normalizeOptions(&Options{MaxBlockSize: n})
		if err != ErrBlockSizeOutOfRange {
			t.Fatalf("MaxBlockSize=%d: err = %v, want ErrBlockSizeOutOfRange", n, err)
		}
	}
}

func TestNormalizeOptionsDictionaryTooLarge(t *testing.T) {
	_, err := normalizeOptions(&Options{Dictionary: make([]byte, maxDictionary+1)})
	if err != ErrDictionaryTooLarge {
		t.Fatalf("err = %v, want ErrDictionaryTooLarge", err)
	}
}

func TestNormalizeOptionsInvalidFraming(t *testing.T) {
	_, err := normalizeOptions(&Options{Framing: Framing(99)})
	if err != ErrFramingFlagConflict {
		t.Fatalf("err = %v, want ErrFramingFlagConflict", err)
	}
}

func TestNormalizeOptionsDoesNotMutateCaller(t *testing.T) {
	opts := &Options{}
	o, err := normalizeOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	if opts.MaxBlockSize != 0 {
		t.Fatalf("normalizeOptions mutated the caller's Options")
	}
	if o == opts {
		t.Fatalf("normalizeOptions must return a private copy")
	}
}
