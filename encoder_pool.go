// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// Uses the sync.Pool acquire/release idiom to pool blockGroupEncoder
// scratch state (suffix array, LCP-interval
// tree, DP parser buffers, Huffman encoders) so that repeated one-shot
// Compress calls at the default block size don't reallocate their scratch
// arrays on every call.

package sadeflate

import "sync"

var defaultEncoderPool = sync.Pool{
	New: func() any {
		return newBlockGroupEncoder(historySize + defaultBlockSize)
	},
}

// acquireBlockGroupEncoder returns a pooled blockGroupEncoder sized for
// historySize+defaultBlockSize, or a freshly allocated one sized for
// capacity when capacity differs from the pooled default.
func acquireBlockGroupEncoder(capacity int) *blockGroupEncoder {
	if capacity != historySize+defaultBlockSize {
		return newBlockGroupEncoder(capacity)
	}
	return defaultEncoderPool.Get().(*blockGroupEncoder)
}

// releaseBlockGroupEncoder returns bg to the pool if it matches the pooled
// capacity; otherwise it is left for the garbage collector.
func releaseBlockGroupEncoder(bg *blockGroupEncoder, capacity int) {
	if bg == nil || capacity != historySize+defaultBlockSize {
		return
	}
	defaultEncoderPool.Put(bg)
}
