package scoring

import "errors"

var (
	// ErrNoQuestions means the test definition is missing or empty.
	ErrNoQuestions = errors.New("no questions defined for test")
	// ErrEmptyAnswers means scoring was requested before any answer was saved.
	ErrEmptyAnswers = errors.New("answer set is empty")
	// ErrBadGender means the demographic value is outside the recognized set.
	ErrBadGender = errors.New("unrecognized gender value")
)
