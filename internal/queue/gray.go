package queue

// toGray converts a binary position counter to its reflected Gray code.
// Successive counter values differ in exactly one bit.
func toGray(b uint64) uint64 {
	return b ^ (b >> 1)
}

// fromGray converts a reflected Gray code back to binary.
func fromGray(g uint64) uint64 {
	b := g
	for shift := uint(1); shift < 64; shift <<= 1 {
		b ^= b >> shift
	}
	return b
}
