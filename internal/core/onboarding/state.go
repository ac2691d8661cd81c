package onboarding

import (
	"encoding/json"
	"fmt"
)

// Step is a stage of the onboarding wizard. The zero value means the
// wizard has not reached any step.
type Step string

// Set of steps, in the order the wizard visits them.
const (
	StepNone    Step = ""
	StepPlan    Step = "plan"
	StepProfile Step = "profile"
	StepSMS     Step = "sms"
	StepDone    Step = "done"
)

var sequence = []Step{StepPlan, StepProfile, StepSMS, StepDone}

// ParseStep parses s into a Step. The empty string is StepNone.
func ParseStep(s string) (Step, error) {
	if s == "" {
		return StepNone, nil
	}
	for _, st := range sequence {
		if string(st) == s {
			return st, nil
		}
	}
	return StepNone, fmt.Errorf("%w: unknown step %q", ErrInvalidArgument, s)
}

// next returns the step after s. It returns s itself when there is no
// following step.
func (s Step) next() Step {
	for i, st := range sequence[:len(sequence)-1] {
		if st == s {
			return sequence[i+1]
		}
	}
	return s
}

// MarshalJSON encodes StepNone as null.
func (s Step) MarshalJSON() ([]byte, error) {
	if s == StepNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON decodes null as StepNone.
func (s *Step) UnmarshalJSON(b []byte) error {
	var v *string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*s = StepNone
		return nil
	}
	st, err := ParseStep(*v)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// State is the progress of one user through the wizard.
type State struct {
	Started     bool `json:"started"`
	Completed   bool `json:"completed"`
	CurrentStep Step `json:"currentStep"`
}

// Start moves to the first step and clears completion.
func (s State) Start() State {
	return State{
		Started:     true,
		Completed:   false,
		CurrentStep: sequence[0],
	}
}

// Advance jumps to step when it is set, otherwise moves to the step after
// the current one. Reaching StepDone marks the wizard completed. Advancing
// without a current step, or from StepDone, changes nothing.
func (s State) Advance(step Step) State {
	if step == StepNone {
		step = s.CurrentStep.next()
	}
	if step == StepNone {
		return s
	}

	s.CurrentStep = step
	if step == StepDone {
		s.Completed = true
	}
	return s
}

// Skip jumps straight to StepDone.
func (s State) Skip() State {
	s.CurrentStep = StepDone
	s.Completed = true
	return s
}

// View names the form shown for step. Only one form is ever shown, none
// outside the plan, profile and sms steps.
func View(step Step) string {
	switch step {
	case StepPlan:
		return "plan_selector"
	case StepProfile:
		return "profile_form"
	case StepSMS:
		return "sms_form"
	}
	return ""
}
