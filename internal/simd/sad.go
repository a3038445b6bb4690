// Package simd provides a platform-dispatched sum-of-absolute-differences
// kernel over 16-byte descriptor blocks, the primitive shared by support
// matching (C3) and dense matching (C7).
package simd

import "golang.org/x/sys/cpu"

// Backend identifies which SAD16 implementation is active.
type Backend int

const (
	BackendScalar Backend = iota
	BackendVectorized
)

func (b Backend) String() string {
	switch b {
	case BackendVectorized:
		return "vectorized"
	default:
		return "scalar"
	}
}

// ActiveBackend records which implementation init() selected.
var ActiveBackend Backend

var sad16 func(a, b []byte) int32

func init() {
	if cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		sad16 = sad16Vectorized
		ActiveBackend = BackendVectorized
		return
	}
	sad16 = sad16Scalar
	ActiveBackend = BackendScalar
}

// SAD16 returns the sum of absolute byte differences between two 16-byte
// descriptor blocks. Both slices must have length >= 16; only the first
// 16 bytes are read.
func SAD16(a, b []byte) int32 {
	return sad16(a[:16], b[:16])
}

// SADBlocks sums SAD16 over descriptor blocks found at the given byte
// offsets into a and b.
func SADBlocks(a, b []byte, offsets []int) int32 {
	var total int32
	for _, off := range offsets {
		total += SAD16(a[off:], b[off:])
	}
	return total
}
