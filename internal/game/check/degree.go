package check

// Degree is the four-step degree of success of a check.
type Degree int

const (
	CriticalFailure Degree = iota
	Failure
	Success
	CriticalSuccess
)

// String returns a human-readable degree label.
func (d Degree) String() string {
	switch d {
	case CriticalSuccess:
		return "critical success"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case CriticalFailure:
		return "critical failure"
	default:
		return "unknown"
	}
}

// Key is the outcome key used by notes, e.g. "criticalSuccess".
func (d Degree) Key() string {
	switch d {
	case CriticalSuccess:
		return "criticalSuccess"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "criticalFailure"
	}
}

// DegreeOf returns the degree of success of total against dc, adjusted one
// step up on a natural 20 and one step down on a natural 1.
//
// Postcondition: total >= dc+10 is a critical success and total <= dc-10 a
// critical failure before the natural-die adjustment.
func DegreeOf(natural, total, dc int) Degree {
	var d Degree
	switch {
	case total >= dc+10:
		d = CriticalSuccess
	case total >= dc:
		d = Success
	case total > dc-10:
		d = Failure
	default:
		d = CriticalFailure
	}
	switch natural {
	case 20:
		if d < CriticalSuccess {
			d++
		}
	case 1:
		if d > CriticalFailure {
			d--
		}
	}
	return d
}
