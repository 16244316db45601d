package models

// Action is one of the two user-triggerable evaluations.
type Action int

const (
	ActionEvaluate Action = iota + 1
	ActionMatchScore
)

// ParseAction maps a form value onto an Action.
func ParseAction(value string) (Action, bool) {
	switch value {
	case "evaluate":
		return ActionEvaluate, true
	case "match":
		return ActionMatchScore, true
	default:
		return 0, false
	}
}

func (a Action) String() string {
	switch a {
	case ActionEvaluate:
		return "evaluate"
	case ActionMatchScore:
		return "match"
	default:
		return "unknown"
	}
}

// Tab is the page tab an action lives on.
func (a Action) Tab() string {
	if a == ActionMatchScore {
		return TabMatch
	}
	return TabAnalysis
}
