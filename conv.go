// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/ytdtex

package ytdtex

const maxUint32 = uint64(^uint32(0))

// u32FromUint64 narrows a uint64 to a uint32.
func u32FromUint64(n uint64) (uint32, error) {
	if n > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// intFromU32 converts a header dimension to an int.
func intFromU32(n uint32) (int, error) {
	if uint64(n) > uint64(maxInt) {
		return 0, ErrSizeOverflow
	}

	return int(n), nil
}

const maxInt = int(^uint(0) >> 1)
