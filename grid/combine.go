package grid

import "fmt"

// CombineRule resolves two writes to the same cell channel.
type CombineRule uint8

const (
	// CombineMax keeps the larger value. It is commutative, associative
	// and exact, so the final grid is independent of fragment order.
	CombineMax CombineRule = iota

	// CombineAddSaturate adds the values and clamps the sum to 1.
	CombineAddSaturate
)

// String returns the rule name.
func (r CombineRule) String() string {
	switch r {
	case CombineMax:
		return "max"
	case CombineAddSaturate:
		return "add-saturate"
	default:
		return fmt.Sprintf("CombineRule(%d)", uint8(r))
	}
}

// Valid reports whether r is a known rule.
func (r CombineRule) Valid() bool {
	return r == CombineMax || r == CombineAddSaturate
}

// ParseCombineRule returns the rule with the given name.
func ParseCombineRule(name string) (CombineRule, error) {
	switch name {
	case "max":
		return CombineMax, nil
	case "add-saturate", "add":
		return CombineAddSaturate, nil
	default:
		return 0, fmt.Errorf("grid: unknown combine rule %q", name)
	}
}

// Apply combines the stored value cur with an incoming value v.
// The result is quantized to half precision.
func (r CombineRule) Apply(cur, v float32) float32 {
	switch r {
	case CombineAddSaturate:
		sum := cur + v
		if sum > 1 {
			sum = 1
		}
		return quantize(sum)
	default:
		if v > cur {
			return quantize(v)
		}
		return cur
	}
}
