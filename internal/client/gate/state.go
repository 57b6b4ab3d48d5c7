package gate

// State is a step of the access gate. Granted and Denied are terminal.
type State int

const (
	NoSession State = iota
	CheckingCache
	Valid
	Invalid
	PromptLogin
	LoginSucceeded
	LoginCancelled
	Granted
	Denied
)

var stateNames = [...]string{
	NoSession:      "NoSession",
	CheckingCache:  "CheckingCache",
	Valid:          "Valid",
	Invalid:        "Invalid",
	PromptLogin:    "PromptLogin",
	LoginSucceeded: "LoginSucceeded",
	LoginCancelled: "LoginCancelled",
	Granted:        "Granted",
	Denied:         "Denied",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == Granted || s == Denied
}

// Outcome says why a run ended.
type Outcome int

const (
	OutcomeGranted Outcome = iota
	OutcomeCancelled
	OutcomeNetworkRequired
	OutcomeTooManyAttempts
	OutcomeNotAllowed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeNetworkRequired:
		return "network required"
	case OutcomeTooManyAttempts:
		return "too many attempts"
	case OutcomeNotAllowed:
		return "not allowed"
	default:
		return "unknown"
	}
}
