package domain

// XP award policy.
const (
	// XPPerCorrectAnswer is awarded for each correctly answered quiz question.
	XPPerCorrectAnswer = 50

	// XPPerQuizCompleted is awarded once per completed quiz.
	XPPerQuizCompleted = 10

	// XPPerNoteCreated is awarded the first time a note is saved.
	XPPerNoteCreated = 50

	// XPPerLevel is the XP span of one level.
	XPPerLevel = 1000
)

// Profile is the per-user gamification and stats record.
// Level is derived from XP rather than stored independently.
type Profile struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	XP           int    `json:"xp"`
	Level        int    `json:"level"`
	StudyHours   int    `json:"studyHours"`
	QuizzesTaken int    `json:"quizzesTaken"`
	NotesCreated int    `json:"notesCreated"`
}

// NewProfile creates an empty profile for a freshly registered user.
func NewProfile(name, email string) *Profile {
	return &Profile{
		Name:  name,
		Email: email,
		Level: 1,
	}
}

// LevelForXP derives the level for a given XP total: one level per
// XPPerLevel, starting at level 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// AddXP adds the given XP and recomputes the level.
func (p *Profile) AddXP(xp int) {
	p.XP += xp
	p.Level = LevelForXP(p.XP)
}

// QuizXP returns the XP awarded for a completed quiz with the given score.
func QuizXP(score int) int {
	return score*XPPerCorrectAnswer + XPPerQuizCompleted
}
