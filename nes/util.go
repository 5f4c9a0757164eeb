package nes

// Set a bit in b at the given bit index.
func setBit(b *byte, bitIdx int, newBit byte) {
	if newBit == 0 {
		*b &^= (1 << bitIdx)
	} else {
		*b |= (1 << bitIdx)
	}
}
