package quiz

import "time"

// Quiz is a set of ordered multiple-choice questions.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Questions   []Question `json:"questions,omitempty"`
}

// Question has four options and one correct letter (A-D).
type Question struct {
	ID            string `json:"id"`
	QuizID        string `json:"quiz_id"`
	Position      int    `json:"position"`
	Prompt        string `json:"prompt"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"-"`
}

// Session is the one shareable access link per quiz. Regenerating after
// expiry replaces the token; the token, not the row, is the single-use
// identity a submission spends.
type Session struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quiz_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session token is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Submission is one scored answer sheet for one session token.
type Submission struct {
	ID              string            `json:"id"`
	SessionToken    string            `json:"session_token"`
	QuizID          string            `json:"quiz_id"`
	ContributorID   string            `json:"contributor_id"`
	ParticipantName string            `json:"participant_name"`
	Answers         map[string]string `json:"answers"`
	Score           int               `json:"score"`
	SubmittedAt     time.Time         `json:"submitted_at"`
}

// ValidOption reports whether letter is one of A, B, C or D.
func ValidOption(letter string) bool {
	return letter == "A" || letter == "B" || letter == "C" || letter == "D"
}
