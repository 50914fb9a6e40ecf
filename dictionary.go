// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Ported from zultra's dictionary.c zultra_dictionary_load: a preset
// dictionary is truncated to the trailing historySize bytes (only
// the most recent history can ever be referenced by a match). The fixed-size
// fingerprint is new: xxhash.Sum64 gives sameAs a fast rejection test
// between two loaded dictionaries. Writer.SetDictionary does not consult
// it; every call copies the dictionary into the history window.

package sadeflate

import "github.com/cespare/xxhash/v2"

// dictionary holds a preset dictionary truncated to the trailing
// historySize bytes and its content fingerprint.
type dictionary struct {
	data        []byte
	fingerprint uint64
}

// loadDictionary truncates data to its trailing historySize bytes (the
// original implementation's "use the last HISTORY_SIZE bytes" rule, for
// dictionaries read from a file of arbitrary length) and fingerprints it.
func loadDictionary(data []byte) *dictionary {
	if len(data) > historySize {
		data = data[len(data)-historySize:]
	}
	return &dictionary{data: data, fingerprint: xxhash.Sum64(data)}
}

// sameAs reports whether d and other carry identical content, using the
// fingerprint as a fast rejection before falling back to a byte compare on
// collision.
func (d *dictionary) sameAs(other *dictionary) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.fingerprint != other.fingerprint || len(d.data) != len(other.data) {
		return false
	}
	for i := range d.data {
		if d.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
