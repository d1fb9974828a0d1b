package function

// Environment selects how the registry treats functions whose cost scales
// with caller-supplied arguments. Filters that arrive from untrusted input
// should run under Secure.
type Environment int

const (
	// Normal trusts the filter author. Growth functions run with the
	// requested sizes, except the pads which always honor the budget.
	Normal Environment = iota
	// Secure assumes filter expressions are attacker-controlled. Every
	// growth function clamps its effective size against the policy budget.
	Secure
)

func (e Environment) String() string {
	switch e {
	case Normal:
		return "normal"
	case Secure:
		return "secure"
	default:
		return "unknown"
	}
}

// DefaultGrowthBudget is the memory budget, in bytes, that growth functions
// divide among their output.
const DefaultGrowthBudget = 200

// Policy bounds the output size of growth functions (pad, repeat). It is
// consulted by any function whose allocation is proportional to an argument
// rather than to the input value.
type Policy struct {
	Environment  Environment
	GrowthBudget int
}

// NewPolicy returns the policy for the given environment with the default
// growth budget.
func NewPolicy(env Environment) Policy {
	return Policy{Environment: env, GrowthBudget: DefaultGrowthBudget}
}

// ClampPad restricts a requested pad size to the budget divided by twice the
// pad string length. Applied in every environment: padding allocates even
// when the filter author is trusted.
func (p Policy) ClampPad(size int, pad string) int {
	unit := len(pad)
	if unit == 0 {
		unit = 1
	}
	maxSize := p.GrowthBudget / (unit * 2)
	if size > maxSize {
		return maxSize
	}
	return size
}

// ClampRepeat restricts a repetition count so that the output stays within
// the budget. Only enforced under Secure; trusted filters may repeat freely.
func (p Policy) ClampRepeat(times int, value string) int {
	if p.Environment != Secure {
		return times
	}
	unit := len(value)
	if unit == 0 {
		unit = 1
	}
	maxTimes := p.GrowthBudget / unit
	if times > maxTimes {
		return maxTimes
	}
	return times
}
