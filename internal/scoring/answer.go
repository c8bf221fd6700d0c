package scoring

import "fmt"

// AnswerKind discriminates the possible shapes of a respondent's answer.
// The decision is made exactly once, at the input boundary; the pipeline
// never re-inspects raw JSON values.
type AnswerKind int

const (
	AnswerUnanswered AnswerKind = iota
	AnswerAffirmative
	AnswerNegative
	AnswerUnknown // explicit "cannot say" sentinel
	AnswerOrdinal // option choice with a point value (sum-scored inventories)
)

// AnswerValue is a tagged union. Ordinal holds the selected option's point
// value and is meaningful only when Kind == AnswerOrdinal.
type AnswerValue struct {
	Kind    AnswerKind `json:"kind"`
	Ordinal int        `json:"ordinal,omitempty"`
}

func Affirmative() AnswerValue     { return AnswerValue{Kind: AnswerAffirmative} }
func Negative() AnswerValue        { return AnswerValue{Kind: AnswerNegative} }
func Unknown() AnswerValue         { return AnswerValue{Kind: AnswerUnknown} }
func Ordinal(v int) AnswerValue    { return AnswerValue{Kind: AnswerOrdinal, Ordinal: v} }
func (a AnswerValue) Answered() bool { return a.Kind != AnswerUnanswered }

// AnswerSet maps question id -> answer. Saves fully replace the previous
// snapshot (last-write-wins); the engine treats it as an immutable input.
type AnswerSet map[int]AnswerValue

// ParseAnswer converts a decoded JSON value into an AnswerValue.
// Accepted shapes: bool (yes/no inventories), float64 (option point value),
// the string "?" for an explicit "cannot say". Anything else is rejected.
func ParseAnswer(v interface{}) (AnswerValue, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return Affirmative(), nil
		}
		return Negative(), nil
	case float64:
		return Ordinal(int(t)), nil
	case string:
		if t == "?" {
			return Unknown(), nil
		}
		return AnswerValue{}, fmt.Errorf("unrecognized answer %q", t)
	case nil:
		return AnswerValue{}, nil
	default:
		return AnswerValue{}, fmt.Errorf("unrecognized answer type %T", v)
	}
}

// ParseAnswerSet decodes a question-id -> raw-value map as received from the
// HTTP layer. Unknown keys are kept: stale ids are filtered later against the
// current question list, which keeps old sessions loadable after a test
// definition changes.
func ParseAnswerSet(raw map[string]interface{}) (AnswerSet, error) {
	out := make(AnswerSet, len(raw))
	for k, v := range raw {
		var id int
		if _, err := fmt.Sscanf(k, "%d", &id); err != nil {
			return nil, fmt.Errorf("bad question id %q", k)
		}
		av, err := ParseAnswer(v)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", id, err)
		}
		if av.Answered() {
			out[id] = av
		}
	}
	return out, nil
}
