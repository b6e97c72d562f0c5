package interpreter

// Outcome classifies how a token was handled. No outcome is fatal.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeUnrecognized
	OutcomeInvalidNumber
	OutcomeOutOfRange
	OutcomeAmbiguous
	OutcomeNoMatch
	OutcomeRejected
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeUnrecognized:
		return "unrecognized"
	case OutcomeInvalidNumber:
		return "invalid_number"
	case OutcomeOutOfRange:
		return "out_of_range"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Reply is the operator-facing status for one token.
type Reply struct {
	Message string
	Outcome Outcome
}

func applied(msg string) Reply {
	return Reply{Message: msg, Outcome: OutcomeApplied}
}

func failed(outcome Outcome, msg string) Reply {
	return Reply{Message: msg, Outcome: outcome}
}
