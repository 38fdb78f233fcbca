package models

// Grade is the four-valued recall judgment reported by the learner
type Grade string

const (
	GradeAgain Grade = "AGAIN"
	GradeHard  Grade = "HARD"
	GradeGood  Grade = "GOOD"
	GradeEasy  Grade = "EASY"
)

// Score maps a grade to its numeric retention score (AGAIN=0 .. EASY=3)
func (g Grade) Score() int {
	switch g {
	case GradeHard:
		return 1
	case GradeGood:
		return 2
	case GradeEasy:
		return 3
	default:
		return 0
	}
}

// IsValid reports whether g is one of the four known grades
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	}
	return false
}
