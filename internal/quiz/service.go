package quiz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"community/internal/apperr"
	"community/internal/member"
	"community/internal/metrics"
)

// Store is the persistence surface the service needs.
type Store interface {
	InsertQuiz(ctx context.Context, q Quiz) (Quiz, error)
	GetQuiz(ctx context.Context, id string) (*Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	InsertQuestion(ctx context.Context, q Question) (Question, error)
	ListQuestions(ctx context.Context, quizID string) ([]Question, error)
	UpsertSession(ctx context.Context, quizID, token string, expiresAt time.Time) (Session, error)
	GetSessionByToken(ctx context.Context, token string) (*Session, error)
	InsertSubmission(ctx context.Context, sub Submission) (*Submission, error)
	GetSubmissionByToken(ctx context.Context, token string) (*Submission, error)
	ListSubmissions(ctx context.Context, quizID string) ([]Submission, error)
}

// Directory resolves the participant identity a submission credits.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (member.Contributor, error)
}

// Service runs the quiz link and submission flow.
type Service struct {
	store      Store
	directory  Directory
	sessionTTL time.Duration
	now        func() time.Time
}

// NewService creates a service backed by a store and a contributor directory.
func NewService(store Store, directory Directory, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &Service{store: store, directory: directory, sessionTTL: sessionTTL, now: time.Now}
}

// Create adds a quiz.
func (s *Service) Create(ctx context.Context, title, description string) (Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Quiz{}, apperr.New(apperr.CodeValidation, "title is required")
	}
	return s.store.InsertQuiz(ctx, Quiz{Title: title, Description: description})
}

// Get returns a quiz with its questions.
func (s *Service) Get(ctx context.Context, id string) (Quiz, error) {
	q, err := s.store.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if q == nil {
		return Quiz{}, apperr.New(apperr.CodeNotFound, "quiz not found")
	}
	return *q, nil
}

// List returns all quizzes.
func (s *Service) List(ctx context.Context) ([]Quiz, error) {
	return s.store.ListQuizzes(ctx)
}

// AddQuestion appends a four-option question to a quiz.
func (s *Service) AddQuestion(ctx context.Context, quizID, prompt, a, b, c, d, correct string) (Question, error) {
	if _, err := s.Get(ctx, quizID); err != nil {
		return Question{}, err
	}
	if strings.TrimSpace(prompt) == "" || a == "" || b == "" || c == "" || d == "" {
		return Question{}, apperr.New(apperr.CodeValidation, "prompt and all four options are required")
	}
	correct = strings.ToUpper(strings.TrimSpace(correct))
	if !ValidOption(correct) {
		return Question{}, apperr.New(apperr.CodeValidation, "correct option must be A, B, C or D")
	}
	return s.store.InsertQuestion(ctx, Question{
		QuizID:        quizID,
		Prompt:        strings.TrimSpace(prompt),
		OptionA:       a,
		OptionB:       b,
		OptionC:       c,
		OptionD:       d,
		CorrectOption: correct,
	})
}

// GenerateLink returns the live session for a quiz, minting one only when
// no unexpired session exists. Repeated calls inside the window return the
// identical token and expiry, so an already-shared link stays valid.
func (s *Service) GenerateLink(ctx context.Context, quizID string) (Session, error) {
	q, err := s.Get(ctx, quizID)
	if err != nil {
		return Session{}, err
	}
	if len(q.Questions) == 0 {
		return Session{}, apperr.New(apperr.CodeValidation, "quiz has no questions")
	}
	return s.store.UpsertSession(ctx, quizID, uuid.NewString(), s.now().Add(s.sessionTTL))
}

// FetchSession resolves a token to its session and quiz. An unknown token
// and a stale one fail differently so the client can tell "invalid link"
// from "link expired".
func (s *Service) FetchSession(ctx context.Context, token string) (Session, Quiz, error) {
	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		return Session{}, Quiz{}, err
	}
	if session == nil {
		return Session{}, Quiz{}, apperr.New(apperr.CodeNotFound, "unknown session token")
	}
	if session.Expired(s.now()) {
		return Session{}, Quiz{}, apperr.New(apperr.CodeExpired, "session link expired")
	}
	q, err := s.Get(ctx, session.QuizID)
	if err != nil {
		return Session{}, Quiz{}, err
	}
	return *session, q, nil
}

// Submit scores an answer sheet against the session's quiz and credits one
// point per correct answer to the contributor. A token accepts exactly one
// submission.
func (s *Service) Submit(ctx context.Context, token, email, participantName string, answers map[string]string) (Submission, error) {
	session, q, err := s.FetchSession(ctx, token)
	if err != nil {
		return Submission{}, err
	}
	if spent, err := s.store.GetSubmissionByToken(ctx, token); err != nil {
		return Submission{}, err
	} else if spent != nil {
		return Submission{}, apperr.New(apperr.CodeAlreadySubmitted, "session already used")
	}

	contributor, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return Submission{}, err
	}
	participantName = strings.TrimSpace(participantName)
	if participantName == "" {
		participantName = contributor.Name
	}

	score := 0
	for _, question := range q.Questions {
		letter, ok := answers[question.ID]
		if !ok {
			return Submission{}, apperr.New(apperr.CodeValidation, "every question must be answered")
		}
		letter = strings.ToUpper(strings.TrimSpace(letter))
		if !ValidOption(letter) {
			return Submission{}, apperr.New(apperr.CodeValidation, "answers must be A, B, C or D")
		}
		if letter == question.CorrectOption {
			score++
		}
	}

	sub, err := s.store.InsertSubmission(ctx, Submission{
		SessionToken:    token,
		QuizID:          session.QuizID,
		ContributorID:   contributor.ID,
		ParticipantName: participantName,
		Answers:         answers,
		Score:           score,
	})
	if err != nil {
		return Submission{}, err
	}
	if sub == nil {
		return Submission{}, apperr.New(apperr.CodeAlreadySubmitted, "session already used")
	}
	metrics.QuizSubmissions.Inc()
	return *sub, nil
}

// Submissions lists a quiz's submissions.
func (s *Service) Submissions(ctx context.Context, quizID string) ([]Submission, error) {
	if _, err := s.Get(ctx, quizID); err != nil {
		return nil, err
	}
	return s.store.ListSubmissions(ctx, quizID)
}
