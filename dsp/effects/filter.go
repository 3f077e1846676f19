package effects

import "fmt"

// Filter consumes one sample and produces one sample.
//
// Implementations keep whatever history they need internally; callers must
// not share one Filter between goroutines.
type Filter interface {
	// ProcessSample processes one sample.
	ProcessSample(sample float32) float32

	// Reset clears internal state without changing parameters.
	Reset()
}

// Type identifies a filter variant.
type Type int

const (
	TypePassThrough Type = iota
	TypeDelay
	TypeFlange
	TypeDistort
)

// String returns the canonical name used by the CLI and config file.
func (t Type) String() string {
	switch t {
	case TypePassThrough:
		return "pass"
	case TypeDelay:
		return "delay"
	case TypeFlange:
		return "flange"
	case TypeDistort:
		return "distort"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType maps a variant name to its Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "pass", "passthrough":
		return TypePassThrough, nil
	case "delay":
		return TypeDelay, nil
	case "flange":
		return TypeFlange, nil
	case "distort":
		return TypeDistort, nil
	default:
		return 0, fmt.Errorf("unknown filter type: %q", name)
	}
}

// PassThrough returns its input unchanged.
type PassThrough struct{}

// NewPassThrough creates the identity filter.
func NewPassThrough() *PassThrough {
	return &PassThrough{}
}

// ProcessSample returns sample unchanged.
func (*PassThrough) ProcessSample(sample float32) float32 { return sample }

// Reset is a no-op.
func (*PassThrough) Reset() {}
