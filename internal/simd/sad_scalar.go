package simd

func sad16Scalar(a, b []byte) int32 {
	var sum int32
	for i := 0; i < 16; i++ {
		d := int32(a[i]) - int32(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
