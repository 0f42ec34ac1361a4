package dispatch

import (
	"fmt"
	"strings"
)

// Policy selects the behaviour when a single processor invocation fails.
type Policy int

const (
	// PolicyContinue logs per-entry failures and processes the remaining
	// entries (best-effort batch).
	PolicyContinue Policy = iota
	// PolicyHalt stops the batch at the first per-entry failure.
	PolicyHalt
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "continue":
		return PolicyContinue, nil
	case "halt":
		return PolicyHalt, nil
	default:
		return PolicyContinue, fmt.Errorf("unknown failure policy %q", value)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyHalt:
		return "halt"
	default:
		return "continue"
	}
}
