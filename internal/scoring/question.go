package scoring

// Option is one selectable choice on a sum-scored inventory item.
// Value is the point contribution when selected.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Question is a single inventory item. Scale is empty for filler items that
// count toward progress but never toward a score. Direction +1 scores an
// affirmative answer, -1 scores a negative one.
type Question struct {
	ID        int      `json:"id"`
	Text      string   `json:"text"`
	Scale     string   `json:"scale,omitempty"`
	Direction int      `json:"direction,omitempty"`
	Options   []Option `json:"options,omitempty"`
}

// Gender selects the norm table set. The zero value is explicit so callers
// can tell "not provided" apart from a deliberate choice.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

// Demographics are the respondent attributes that parameterize scoring.
type Demographics struct {
	Gender Gender `json:"gender,omitempty"`
	Age    int    `json:"age,omitempty"`
}

// Valid reports whether the gender value is one of the recognized inputs.
func (g Gender) Valid() bool {
	return g == GenderUnspecified || g == GenderMale || g == GenderFemale
}
