package scoring

import "testing"

func boolQuestions() []Question {
	return []Question{
		{ID: 1, Scale: "2", Direction: 1},
		{ID: 2, Scale: "2", Direction: 1},
		{ID: 3, Scale: "2", Direction: -1},
		{ID: 4, Scale: "L", Direction: 1},
		{ID: 5}, // filler, no scale
	}
}

func TestScoreRawDirections(t *testing.T) {
	answers := AnswerSet{
		1: Affirmative(), // +1 on "2"
		2: Negative(),    // 0
		3: Negative(),    // reverse-keyed: +1 on "2"
		4: Affirmative(), // +1 on "L"
		5: Affirmative(), // filler, ignored
	}
	raw := ScoreRaw(answers, boolQuestions())
	if raw["2"] != 2 {
		t.Errorf("scale 2 raw = %d, want 2", raw["2"])
	}
	if raw["L"] != 1 {
		t.Errorf("scale L raw = %d, want 1", raw["L"])
	}
	if _, ok := raw[""]; ok {
		t.Error("filler items must not create an empty-code scale")
	}
}

func TestScoreRawAllAffirmativeBounds(t *testing.T) {
	// 10 direction=+1 items on one scale, all answered yes -> raw = 10.
	qs := make([]Question, 10)
	answers := AnswerSet{}
	for i := range qs {
		qs[i] = Question{ID: i + 1, Scale: "7", Direction: 1}
		answers[i+1] = Affirmative()
	}
	raw := ScoreRaw(answers, qs)
	if raw["7"] != 10 {
		t.Fatalf("raw = %d, want 10", raw["7"])
	}
}

func TestScoreRawDefaultsAndStrays(t *testing.T) {
	answers := AnswerSet{
		99: Affirmative(), // unknown id, ignored
		1:  Unknown(),     // contributes 0
	}
	raw := ScoreRaw(answers, boolQuestions())
	for _, scale := range []string{"2", "L"} {
		if _, ok := raw[scale]; !ok {
			t.Errorf("scale %s missing from raw map", scale)
		}
	}
	if raw["2"] != 0 || raw["L"] != 0 {
		t.Errorf("unexpected nonzero raw: %v", raw)
	}
}

func TestEnsureScales(t *testing.T) {
	raw := ScoreRaw(AnswerSet{1: Affirmative()}, boolQuestions())
	raw.EnsureScales("2", "L", "K")
	if v, ok := raw["K"]; !ok || v != 0 {
		t.Errorf("K = %d (present=%v), want seeded 0", v, ok)
	}
	// Seeding must never clobber a scored scale.
	if raw["2"] != 1 {
		t.Errorf("scale 2 raw = %d after seeding, want 1", raw["2"])
	}
}

func TestScoreRawOrdinalOptions(t *testing.T) {
	qs := []Question{
		{ID: 1, Scale: "total", Options: []Option{{Value: 0}, {Value: 1}, {Value: 2}, {Value: 3}}},
		{ID: 2, Scale: "total", Options: []Option{{Value: 0}, {Value: 1}, {Value: 2}, {Value: 3}}},
	}
	answers := AnswerSet{
		1: Ordinal(3),
		2: Ordinal(7), // not a defined option -> 0
	}
	raw := ScoreRaw(answers, qs)
	if raw["total"] != 3 {
		t.Fatalf("total = %d, want 3", raw["total"])
	}
}

func TestScoreRawDeterministic(t *testing.T) {
	answers := AnswerSet{1: Affirmative(), 3: Negative()}
	qs := boolQuestions()
	a := ScoreRaw(answers, qs)
	b := ScoreRaw(answers, qs)
	for k, v := range a {
		if b[k] != v {
			t.Fatalf("non-deterministic raw score for %s: %d vs %d", k, v, b[k])
		}
	}
}

func TestParseAnswerSet(t *testing.T) {
	raw := map[string]interface{}{
		"1": true,
		"2": false,
		"3": float64(2),
		"4": "?",
	}
	set, err := ParseAnswerSet(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set[1].Kind != AnswerAffirmative || set[2].Kind != AnswerNegative {
		t.Errorf("bool answers mis-parsed: %+v", set)
	}
	if set[3].Kind != AnswerOrdinal || set[3].Ordinal != 2 {
		t.Errorf("ordinal answer mis-parsed: %+v", set[3])
	}
	if set[4].Kind != AnswerUnknown {
		t.Errorf("sentinel answer mis-parsed: %+v", set[4])
	}

	if _, err := ParseAnswerSet(map[string]interface{}{"x": true}); err == nil {
		t.Error("expected error for non-numeric question id")
	}
	if _, err := ParseAnswerSet(map[string]interface{}{"1": "yes"}); err == nil {
		t.Error("expected error for unrecognized string answer")
	}
}
