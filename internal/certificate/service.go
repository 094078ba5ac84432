package certificate

import (
	"context"

	"community/internal/apperr"
	"community/internal/member"
	"community/internal/metrics"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListEligibleMeetings(ctx context.Context, contributorID string) ([]EligibleMeeting, error)
	HasPresentEligible(ctx context.Context, contributorID, meetingID string) (bool, error)
	CountSubmissions(ctx context.Context, contributorID string) (int, error)
	GetForMeeting(ctx context.Context, contributorID, meetingID string) (*Certificate, error)
	GetForQuiz(ctx context.Context, contributorID string) (*Certificate, error)
	GetBySerial(ctx context.Context, serial string) (*Certificate, error)
	GetByID(ctx context.Context, id string) (*Certificate, error)
	Insert(ctx context.Context, c Certificate) (*Certificate, error)
	SetPDFURL(ctx context.Context, id, url string) error
	ListByContributor(ctx context.Context, contributorID string) ([]Certificate, error)
}

// Directory resolves contributors.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (member.Contributor, error)
	Get(ctx context.Context, id string) (member.Contributor, error)
}

// Service resolves eligibility and issues certificates.
type Service struct {
	store     Store
	directory Directory
	milestone int
}

// NewService creates a service. milestone is the quiz-submission count
// that unlocks the quiz certificate.
func NewService(store Store, directory Directory, milestone int) *Service {
	if milestone <= 0 {
		milestone = 5
	}
	return &Service{store: store, directory: directory, milestone: milestone}
}

// Eligibility reports every certificate the contributor behind email may
// claim, with claimed serials where issuance already happened. Read-only;
// safe to call any number of times.
func (s *Service) Eligibility(ctx context.Context, email string) (Eligibility, error) {
	contributor, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return Eligibility{}, err
	}

	meetings, err := s.store.ListEligibleMeetings(ctx, contributor.ID)
	if err != nil {
		return Eligibility{}, err
	}
	entitlements := make([]MeetingEntitlement, 0, len(meetings))
	for _, m := range meetings {
		entry := MeetingEntitlement{MeetingID: m.MeetingID, MeetingTitle: m.Title, MeetingDate: m.Date}
		cert, err := s.store.GetForMeeting(ctx, contributor.ID, m.MeetingID)
		if err != nil {
			return Eligibility{}, err
		}
		if cert != nil {
			entry.Claimed = true
			entry.Serial = cert.Serial
			issued := cert.IssuedAt
			entry.IssuedAt = &issued
		}
		entitlements = append(entitlements, entry)
	}

	count, err := s.store.CountSubmissions(ctx, contributor.ID)
	if err != nil {
		return Eligibility{}, err
	}
	milestone := QuizMilestone{
		Submissions: count,
		Required:    s.milestone,
		Eligible:    count >= s.milestone,
	}
	if cert, err := s.store.GetForQuiz(ctx, contributor.ID); err != nil {
		return Eligibility{}, err
	} else if cert != nil {
		milestone.Claimed = true
		milestone.Serial = cert.Serial
		issued := cert.IssuedAt
		milestone.IssuedAt = &issued
	}

	return Eligibility{
		Contributor: contributor,
		Tier:        member.Tier(contributor.Points),
		Meetings:    entitlements,
		Quiz:        milestone,
	}, nil
}

// Claim issues a certificate for one entitlement, re-validating the
// underlying condition server-side. Claiming an already-claimed
// entitlement returns the existing certificate unchanged; created reports
// whether this call issued a new row.
func (s *Service) Claim(ctx context.Context, contributorID, kind, meetingID string) (Certificate, bool, error) {
	contributor, err := s.directory.Get(ctx, contributorID)
	if err != nil {
		return Certificate{}, false, err
	}

	var cert Certificate
	switch kind {
	case KindMeeting:
		if meetingID == "" {
			return Certificate{}, false, apperr.New(apperr.CodeValidation, "meeting id is required for a meeting certificate")
		}
		ok, err := s.store.HasPresentEligible(ctx, contributor.ID, meetingID)
		if err != nil {
			return Certificate{}, false, err
		}
		if !ok {
			return Certificate{}, false, apperr.New(apperr.CodeNotEligible, "no present record on a certificate-eligible meeting")
		}
		if existing, err := s.store.GetForMeeting(ctx, contributor.ID, meetingID); err != nil {
			return Certificate{}, false, err
		} else if existing != nil {
			return *existing, false, nil
		}
		mid := meetingID
		cert = Certificate{Serial: NewSerial(), ContributorID: contributor.ID, Kind: KindMeeting, MeetingID: &mid}

	case KindQuiz:
		count, err := s.store.CountSubmissions(ctx, contributor.ID)
		if err != nil {
			return Certificate{}, false, err
		}
		if count < s.milestone {
			return Certificate{}, false, apperr.New(apperr.CodeNotEligible, "quiz milestone not reached")
		}
		if existing, err := s.store.GetForQuiz(ctx, contributor.ID); err != nil {
			return Certificate{}, false, err
		} else if existing != nil {
			return *existing, false, nil
		}
		cert = Certificate{Serial: NewSerial(), ContributorID: contributor.ID, Kind: KindQuiz}

	default:
		return Certificate{}, false, apperr.New(apperr.CodeValidation, "kind must be meeting or quiz")
	}

	inserted, err := s.store.Insert(ctx, cert)
	if err != nil {
		return Certificate{}, false, err
	}
	if inserted == nil {
		// A concurrent claim won the unique index; surface its row as if
		// this call had found it up front.
		var existing *Certificate
		if kind == KindMeeting {
			existing, err = s.store.GetForMeeting(ctx, contributor.ID, meetingID)
		} else {
			existing, err = s.store.GetForQuiz(ctx, contributor.ID)
		}
		if err != nil {
			return Certificate{}, false, err
		}
		if existing == nil {
			return Certificate{}, false, apperr.New(apperr.CodeConflict, "certificate vanished during claim")
		}
		return *existing, false, nil
	}
	metrics.CertificatesIssued.WithLabelValues(kind).Inc()
	return *inserted, true, nil
}

// Verify resolves a serial to its certificate and recipient.
func (s *Service) Verify(ctx context.Context, serial string) (Certificate, member.Contributor, error) {
	cert, err := s.store.GetBySerial(ctx, serial)
	if err != nil {
		return Certificate{}, member.Contributor{}, err
	}
	if cert == nil {
		return Certificate{}, member.Contributor{}, apperr.New(apperr.CodeNotFound, "unknown serial")
	}
	contributor, err := s.directory.Get(ctx, cert.ContributorID)
	if err != nil {
		return Certificate{}, member.Contributor{}, err
	}
	return *cert, contributor, nil
}

// Get returns a certificate by row id.
func (s *Service) Get(ctx context.Context, id string) (Certificate, error) {
	cert, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Certificate{}, err
	}
	if cert == nil {
		return Certificate{}, apperr.New(apperr.CodeNotFound, "certificate not found")
	}
	return *cert, nil
}

// AttachPDF records the rendered document URL for a certificate.
func (s *Service) AttachPDF(ctx context.Context, id, url string) error {
	return s.store.SetPDFURL(ctx, id, url)
}
