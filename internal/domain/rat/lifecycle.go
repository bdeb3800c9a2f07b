package rat

import "time"

// transitions is the authoritative lifecycle table. Rejected is not terminal:
// it always loops back to Draft for rework. Inactive can be reactivated.
// There is no force escape hatch; conflicting states resolve through Draft.
var transitions = map[State][]State{
	StateDraft:            {StateInReview, StatePendingApproval},
	StateInReview:         {StateApproved, StateChangesRequested, StateRejected},
	StatePendingApproval:  {StateApproved, StateChangesRequested, StateRejected},
	StateChangesRequested: {StateInReview, StateDraft},
	StateApproved:         {StateActive, StateCertified},
	StateActive:           {StateCertified, StateInactive},
	StateCertified:        {StateInactive},
	StateRejected:         {StateDraft},
	StateInactive:         {StateActive},
}

func CanTransition(from, to State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the record to target if the table allows it. The only
// mutations are State and UpdatedAt; on error the record is untouched.
func Transition(r *Record, target State, now time.Time) error {
	if !CanTransition(r.State, target) {
		return &InvalidTransitionError{From: r.State, To: target}
	}
	r.State = target
	r.UpdatedAt = now
	return nil
}
