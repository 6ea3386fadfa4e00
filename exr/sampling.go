package exr

// DivP returns x/y rounded so that ModP is never negative; for y > 0
// this is x/y rounded toward negative infinity. The data window may
// have negative coordinates, so plain integer division would round the
// wrong way for pixels left of or above the origin.
func DivP(x, y int) int {
	if x >= 0 {
		if y >= 0 {
			return x / y
		}
		return -(x / -y)
	}
	if y >= 0 {
		return -((y - 1 - x) / y)
	}
	return (-y - 1 - x) / -y
}

// ModP returns x modulo y, with the same sign convention as DivP:
// the result is always in [0, |y|).
func ModP(x, y int) int {
	return x - y*DivP(x, y)
}

// NumSamples returns how many samples a channel with sampling factor s
// contributes between pixel positions a and b, inclusive. A channel
// contributes a sample at position x only when x is a multiple of s.
func NumSamples(s, a, b int) int {
	a1 := DivP(a, s)
	b1 := DivP(b, s)

	n := b1 - a1
	if a1*s >= a {
		n++
	}
	return n
}

// BytesPerScanLine returns the number of pixel bytes row y occupies for
// the given channels across [minX, maxX]. Channels whose YSampling
// excludes the row contribute nothing.
func BytesPerScanLine(channels ChannelList, minX, maxX, y int) int {
	size := 0
	for _, c := range channels {
		if ModP(y, int(c.YSampling)) != 0 {
			continue
		}
		size += NumSamples(int(c.XSampling), minX, maxX) * c.Type.Size()
	}
	return size
}

// MaxBytesPerScanLine returns the largest value BytesPerScanLine can
// take for any row, which is the row where every channel samples.
func MaxBytesPerScanLine(channels ChannelList, minX, maxX int) int {
	size := 0
	for _, c := range channels {
		size += NumSamples(int(c.XSampling), minX, maxX) * c.Type.Size()
	}
	return size
}
