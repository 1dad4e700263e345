package optimizer

import "math"

// Float constrains the element types update kernels compute in.
type Float interface {
	~float32 | ~float64
}

// Index constrains the supported row-sparse index widths.
type Index interface {
	~int32 | ~int64
}

// clip clamps x to [-bound, bound]. Callers gate on bound >= 0: a
// negative bound means clipping is disabled and clip is never called.
func clip[T Float](x, bound T) T {
	if x > bound {
		return bound
	}
	if x < -bound {
		return -bound
	}
	return x
}

func sqrt[T Float](x T) T {
	return T(math.Sqrt(float64(x)))
}
