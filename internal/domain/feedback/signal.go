package feedback

// Signal is the tri-state outcome of comparing one attribute.
type Signal uint8

// Signal values. The zero value is None so an unset field never reads as a match.
const (
	None Signal = iota
	Partial
	Exact
)

// String implements fmt.Stringer.
func (s Signal) String() string {
	switch s {
	case Exact:
		return "exact"
	case Partial:
		return "partial"
	case None:
		return "none"
	default:
		return "invalid"
	}
}

// Capability marks attributes the engine cannot compare yet. It is a separate
// type from Signal so callers branch on support instead of reading a miss.
type Capability uint8

// Capability values.
const (
	Unsupported Capability = iota
)

// String implements fmt.Stringer.
func (c Capability) String() string {
	if c == Unsupported {
		return "unsupported"
	}
	return "invalid"
}
