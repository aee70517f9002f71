package models

import "strings"

// Verdict is a closed classification result. The model is asked to answer
// with one of RESPOND, IGNORE or STOP; anything else parses to VerdictNone.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictRespond
	VerdictIgnore
	VerdictStop
)

func (v Verdict) String() string {
	switch v {
	case VerdictRespond:
		return "RESPOND"
	case VerdictIgnore:
		return "IGNORE"
	case VerdictStop:
		return "STOP"
	default:
		return "NONE"
	}
}

// ParseVerdict extracts a verdict from raw model output. The first of the
// three keywords found in the text wins, so trailing explanations from
// chattier models are tolerated.
func ParseVerdict(s string) Verdict {
	upper := strings.ToUpper(s)
	best := VerdictNone
	bestIdx := len(upper) + 1
	for _, c := range []struct {
		word    string
		verdict Verdict
	}{
		{"RESPOND", VerdictRespond},
		{"IGNORE", VerdictIgnore},
		{"STOP", VerdictStop},
	} {
		if idx := strings.Index(upper, c.word); idx >= 0 && idx < bestIdx {
			best = c.verdict
			bestIdx = idx
		}
	}
	return best
}
