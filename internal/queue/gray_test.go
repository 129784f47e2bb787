package queue

import (
	"math/bits"
	"testing"
)

func TestGray_RoundTrip(t *testing.T) {
	for b := uint64(0); b < 4096; b++ {
		if got := fromGray(toGray(b)); got != b {
			t.Fatalf("fromGray(toGray(%d)) = %d", b, got)
		}
	}
	for _, b := range []uint64{1 << 40, 1<<63 | 5, ^uint64(0)} {
		if got := fromGray(toGray(b)); got != b {
			t.Errorf("fromGray(toGray(%#x)) = %#x", b, got)
		}
	}
}

func TestGray_SingleBitSteps(t *testing.T) {
	// Including the wrap of a 4-bit counter (capacity 8)
	const ptrMask = 15
	for b := uint64(0); b <= ptrMask; b++ {
		next := (b + 1) & ptrMask
		if d := bits.OnesCount64(toGray(b) ^ toGray(next)); d != 1 {
			t.Errorf("gray(%d) -> gray(%d) flips %d bits", b, next, d)
		}
	}
}

func TestStorage_Addressing(t *testing.T) {
	s := NewStorage[int](4)
	for pos := uint64(0); pos < 8; pos++ {
		s.Write(pos, int(pos))
	}
	// Positions 4..7 alias slots 0..3
	for pos := uint64(0); pos < 4; pos++ {
		if got := s.Read(pos); got != int(pos)+4 {
			t.Errorf("Read(%d) = %d, expected %d", pos, got, pos+4)
		}
	}
	if s.Len() != 4 {
		t.Errorf("expected Len() = 4, got %d", s.Len())
	}
}
