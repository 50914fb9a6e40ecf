// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/sadeflate
//
// The suffix-array construction primitive is treated as a pluggable black
// box: no third-party Go suffix-array library fits this contract, so this
// is a self-contained O(n log^2 n) prefix-doubling construction over the
// standard library's comparison sort (sort.Slice). Any O(n) construction
// (SA-IS, DC3, libsais) implements the same contract and may be
// substituted.

package sadeflate

import "sort"

// buildSuffixArray returns SA such that data[SA[r]:] < data[SA[r+1]:]
// lexicographically for all valid r. Standard prefix-doubling with rank
// arrays; O(n log^2 n) comparisons via sort.Slice, adequate for the
// window sizes this compressor operates on (<= 2 MiB + 32 KiB history).
func buildSuffixArray(data []byte) []int32 {
	n := len(data)
	sa := make([]int32, n)
	rank := make([]int32, n)
	tmp := make([]int32, n)

	for i := 0; i < n; i++ {
		sa[i] = int32(i)
		rank[i] = int32(data[i])
	}

	for k := 1; ; k *= 2 {
		rankAt := func(i int32) int32 {
			if int(i) >= n {
				return -1
			}
			return rank[i]
		}

		sort.Slice(sa, func(a, b int) bool {
			ia, ib := sa[a], sa[b]
			ra, rb := rank[ia], rank[ib]
			if ra != rb {
				return ra < rb
			}
			return rankAt(ia+int32(k)) < rankAt(ib+int32(k))
		})

		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			prev, cur := sa[i-1], sa[i]
			same := rank[prev] == rank[cur] && rankAt(prev+int32(k)) == rankAt(cur+int32(k))
			if same {
				tmp[cur] = tmp[prev]
			} else {
				tmp[cur] = tmp[prev] + 1
			}
		}
		copy(rank, tmp)

		if int(rank[sa[n-1]]) == n-1 {
			break
		}
		if k > n {
			break
		}
	}

	return sa
}

// buildLCPArray computes LCP[r] = length of the common prefix between
// data[SA[r-1]:] and data[SA[r]:] (LCP[0] = 0), using the
// Karkkainen-Sanders permuted-LCP technique: build Phi with
// Phi[SA[r]] = SA[r-1], then sweep text order computing PLCP with a
// running counter that only ever decreases by one step per position.
func buildLCPArray(data []byte, sa []int32) []int32 {
	n := len(data)
	lcp := make([]int32, n)
	if n == 0 {
		return lcp
	}

	phi := make([]int32, n)
	phi[sa[0]] = -1
	for r := 1; r < n; r++ {
		phi[sa[r]] = sa[r-1]
	}

	plcp := make([]int32, n)
	l := int32(0)
	for i := 0; i < n; i++ {
		j := phi[i]
		if j < 0 {
			plcp[i] = 0
			l = 0
			continue
		}
		for int(i)+int(l) < n && int(j)+int(l) < n && data[int(i)+int(l)] == data[int(j)+int(l)] {
			l++
		}
		plcp[i] = l
		if l > 0 {
			l--
		}
	}

	for r := 0; r < n; r++ {
		lcp[r] = plcp[sa[r]]
	}
	return lcp
}
