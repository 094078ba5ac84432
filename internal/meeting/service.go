package meeting

import (
	"context"
	"strings"
	"time"

	"community/internal/apperr"
)

// Store is the persistence surface the service needs.
type Store interface {
	InsertMeeting(ctx context.Context, m Meeting) (Meeting, error)
	GetMeeting(ctx context.Context, id string) (*Meeting, error)
	ListMeetings(ctx context.Context) ([]Meeting, error)
	UpdateMeeting(ctx context.Context, id, title, minutes string) error
	MarkCertificateEligible(ctx context.Context, id string) error
	GetParticipation(ctx context.Context, contributorID, meetingID string) (*ParticipationRecord, error)
	UpsertParticipation(ctx context.Context, rec ParticipationRecord) (ParticipationRecord, error)
	ListParticipationByMeeting(ctx context.Context, meetingID string) ([]ParticipationRecord, error)
	ListParticipationByContributor(ctx context.Context, contributorID string) ([]ParticipationRecord, error)
	CountCertificates(ctx context.Context, contributorID, meetingID string) (int, error)
}

// Service manages meetings and attendance records.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create adds a meeting.
func (s *Service) Create(ctx context.Context, title string, date time.Time, minutes string, certificateEligible bool) (Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" || date.IsZero() {
		return Meeting{}, apperr.New(apperr.CodeValidation, "title and date are required")
	}
	return s.store.InsertMeeting(ctx, Meeting{
		Title:               title,
		Date:                date,
		Minutes:             minutes,
		CertificateEligible: certificateEligible,
	})
}

// Get returns a meeting by id.
func (s *Service) Get(ctx context.Context, id string) (Meeting, error) {
	m, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return Meeting{}, err
	}
	if m == nil {
		return Meeting{}, apperr.New(apperr.CodeNotFound, "meeting not found")
	}
	return *m, nil
}

// List returns all meetings.
func (s *Service) List(ctx context.Context) ([]Meeting, error) {
	return s.store.ListMeetings(ctx)
}

// Update changes title and minutes.
func (s *Service) Update(ctx context.Context, id, title, minutes string) (Meeting, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Meeting{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Meeting{}, apperr.New(apperr.CodeValidation, "title is required")
	}
	if err := s.store.UpdateMeeting(ctx, id, title, minutes); err != nil {
		return Meeting{}, err
	}
	return s.Get(ctx, id)
}

// MarkCertificateEligible turns the flag on. The flag is one-way.
func (s *Service) MarkCertificateEligible(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.MarkCertificateEligible(ctx, id)
}

// RecordParticipation writes or replaces a contributor's attendance at a
// meeting. Once a certificate has been issued for the pair the record is
// frozen.
func (s *Service) RecordParticipation(ctx context.Context, contributorID, meetingID, status string, points int, note string) (ParticipationRecord, error) {
	if !ValidStatus(status) {
		return ParticipationRecord{}, apperr.New(apperr.CodeValidation, "status must be present, excused or absent")
	}
	if points < 0 {
		return ParticipationRecord{}, apperr.New(apperr.CodeValidation, "points cannot be negative")
	}
	if _, err := s.Get(ctx, meetingID); err != nil {
		return ParticipationRecord{}, err
	}
	issued, err := s.store.CountCertificates(ctx, contributorID, meetingID)
	if err != nil {
		return ParticipationRecord{}, err
	}
	if issued > 0 {
		return ParticipationRecord{}, apperr.New(apperr.CodeConflict, "participation is frozen: a certificate was issued against it")
	}
	return s.store.UpsertParticipation(ctx, ParticipationRecord{
		ContributorID: contributorID,
		MeetingID:     meetingID,
		Status:        status,
		Points:        points,
		Note:          note,
	})
}

// Roster returns all participation records for a meeting.
func (s *Service) Roster(ctx context.Context, meetingID string) ([]ParticipationRecord, error) {
	if _, err := s.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.store.ListParticipationByMeeting(ctx, meetingID)
}

// History returns one contributor's participation records.
func (s *Service) History(ctx context.Context, contributorID string) ([]ParticipationRecord, error) {
	return s.store.ListParticipationByContributor(ctx, contributorID)
}
