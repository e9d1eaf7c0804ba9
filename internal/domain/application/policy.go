package application

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITION POLICY
// ══════════════════════════════════════════════════════════════════════════════

// TransitionPolicy decides whether a status change is allowed. Two policies
// ship: the permissive default, which lets admins move an application to any
// valid status (the placement cell regularly fixes mis-clicked records), and
// a strict forward-only policy behind the STRICT_TRANSITIONS feature flag.
type TransitionPolicy interface {
	// Validate returns nil if the move from -> to is allowed.
	Validate(from, to Status) error

	// Name identifies the policy in logs.
	Name() string
}

// ─────────────────────────────────────────────
// Permissive policy
// ─────────────────────────────────────────────

type permissivePolicy struct{}

// Permissive returns the default policy: any valid status is reachable from
// any other, including re-opening terminal statuses.
func Permissive() TransitionPolicy {
	return permissivePolicy{}
}

func (permissivePolicy) Validate(from, to Status) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func (permissivePolicy) Name() string { return "permissive" }

// ─────────────────────────────────────────────
// Strict policy
// ─────────────────────────────────────────────

// strictSuccessors is the forward-only pipeline. Rejected is reachable from
// every non-terminal status; terminal statuses have no successors.
var strictSuccessors = map[Status][]Status{
	StatusApplied:     {StatusUnderReview, StatusRejected},
	StatusUnderReview: {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusInterviewed, StatusRejected},
	StatusInterviewed: {StatusSelected, StatusRejected},
	StatusSelected:    {},
	StatusRejected:    {},
}

type strictPolicy struct{}

// Strict returns the forward-only policy used when the STRICT_TRANSITIONS
// feature flag is on.
func Strict() TransitionPolicy {
	return strictPolicy{}
}

func (strictPolicy) Validate(from, to Status) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	for _, s := range strictSuccessors[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("transition %s -> %s not allowed: %w", from, to, ErrTransitionNotAllowed)
}

func (strictPolicy) Name() string { return "strict" }
