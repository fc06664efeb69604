package edds

// maxMipLevels returns the length of a full mip chain for the given size.
func maxMipLevels(width, height int) int {
	count := 1
	for width > 1 || height > 1 {
		count++
		width = max(1, width/2)
		height = max(1, height/2)
	}

	return count
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	return max(1, base>>level)
}
