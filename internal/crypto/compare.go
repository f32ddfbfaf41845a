// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

// SlowEquals compares two strings in time that depends only on their lengths.
// Every byte of the common prefix is visited even after a mismatch, and a
// length difference is folded into the result instead of returning early.
func SlowEquals(a, b string) bool {
	equal, _ := slowEquals(a, b)
	return equal
}

// slowEquals is SlowEquals with the number of visited byte pairs exposed.
func slowEquals(a, b string) (bool, int) {
	n := min(len(a), len(b))

	var diff byte
	steps := 0
	for i := 0; i < n; i++ {
		diff |= a[i] ^ b[i]
		steps++
	}

	lenDiff := len(a) ^ len(b)
	// fold every byte of the length difference, not only the low one
	for lenDiff != 0 {
		diff |= byte(lenDiff)
		lenDiff >>= 8
	}

	return diff == 0, steps
}
