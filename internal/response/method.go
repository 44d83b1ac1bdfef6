package response

import (
	"fmt"
	"strings"
)

// Method selects the SDOF integration scheme.
type Method int

const (
	Newmark Method = iota
	FrequencyDomain
	Mixed
)

// MixedSwitchPeriod is the period (s) below which Mixed uses the frequency
// domain.
const MixedSwitchPeriod = 0.5

func (m Method) String() string {
	switch m {
	case Newmark:
		return "newmark"
	case FrequencyDomain:
		return "freq"
	case Mixed:
		return "mixed"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// resolve returns the concrete scheme used for one period.
func (m Method) resolve(period float64) Method {
	if m == Mixed {
		if period < MixedSwitchPeriod {
			return FrequencyDomain
		}
		return Newmark
	}
	return m
}

// ParseMethod accepts "newmark", "freq" (or "frequency") and "mixed".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "newmark", "nmk":
		return Newmark, nil
	case "freq", "frequency":
		return FrequencyDomain, nil
	case "mixed":
		return Mixed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Spacing selects how a period grid is distributed.
type Spacing int

const (
	LogSpacing Spacing = iota
	LinearSpacing
	MixedSpacing
)

func (s Spacing) String() string {
	switch s {
	case LogSpacing:
		return "log"
	case LinearSpacing:
		return "linear"
	case MixedSpacing:
		return "mixed"
	default:
		return fmt.Sprintf("Spacing(%d)", int(s))
	}
}

// ParseSpacing accepts "log", "linear" and "mixed".
func ParseSpacing(s string) (Spacing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log":
		return LogSpacing, nil
	case "linear", "lin":
		return LinearSpacing, nil
	case "mixed":
		return MixedSpacing, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpacing, s)
}
