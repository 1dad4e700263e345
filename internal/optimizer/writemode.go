package optimizer

// WriteMode describes how a kernel stores a computed value into the
// output tensor.
type WriteMode int

const (
	// WriteNone skips the update entirely; the call is a no-op.
	WriteNone WriteMode = iota
	// WriteTo overwrites the output, which may be a distinct tensor.
	WriteTo
	// WriteInplace overwrites the output, which must share storage with
	// the weight input. Every sparse update path requires it, since a
	// sparse differential output is not representable.
	WriteInplace
	// WriteAdd accumulates the computed value into the output.
	WriteAdd
)

// String returns a human-readable write mode name.
func (m WriteMode) String() string {
	switch m {
	case WriteNone:
		return "none"
	case WriteTo:
		return "write_to"
	case WriteInplace:
		return "write_inplace"
	case WriteAdd:
		return "add_to"
	default:
		return "unknown"
	}
}

// assign stores v into dst[i] according to the write mode. Shared by all
// kernels so each formula body is written once per rule.
func assign[T Float](dst []T, i int, mode WriteMode, v T) {
	switch mode {
	case WriteTo, WriteInplace:
		dst[i] = v
	case WriteAdd:
		dst[i] += v
	}
}
