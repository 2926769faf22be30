//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package metric

// Windows returns the half-open index ranges of a rolling evaluation over n observations.
//
// With window > 0 the data is cut into consecutive blocks of that size starting at 0.
// A trailing block shorter than window is kept, so there are ceil(n/window) blocks.
// With window <= 0 the windows expand: window i covers indices 0..i for i = 0..n-2,
// giving n-1 windows.
func Windows(n, window int) [][2]int {
	if n <= 0 {
		return nil
	}
	if window > 0 {
		out := make([][2]int, 0, (n+window-1)/window)
		for lo := 0; lo < n; lo += window {
			out = append(out, [2]int{lo, min(lo+window, n)})
		}
		return out
	}
	out := make([][2]int, 0, n-1)
	for i := 0; i < n-1; i++ {
		out = append(out, [2]int{0, i + 1})
	}
	return out
}
