package certificate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community/internal/apperr"
	"community/internal/member"
)

type mockStore struct {
	listEligibleMeetingsFunc func(ctx context.Context, contributorID string) ([]EligibleMeeting, error)
	hasPresentEligibleFunc   func(ctx context.Context, contributorID, meetingID string) (bool, error)
	countSubmissionsFunc     func(ctx context.Context, contributorID string) (int, error)
	getForMeetingFunc        func(ctx context.Context, contributorID, meetingID string) (*Certificate, error)
	getForQuizFunc           func(ctx context.Context, contributorID string) (*Certificate, error)
	getBySerialFunc          func(ctx context.Context, serial string) (*Certificate, error)
	getByIDFunc              func(ctx context.Context, id string) (*Certificate, error)
	insertFunc               func(ctx context.Context, c Certificate) (*Certificate, error)
	setPDFURLFunc            func(ctx context.Context, id, url string) error
	listByContributorFunc    func(ctx context.Context, contributorID string) ([]Certificate, error)
}

func (m *mockStore) ListEligibleMeetings(ctx context.Context, contributorID string) ([]EligibleMeeting, error) {
	if m.listEligibleMeetingsFunc != nil {
		return m.listEligibleMeetingsFunc(ctx, contributorID)
	}
	return nil, nil
}

func (m *mockStore) HasPresentEligible(ctx context.Context, contributorID, meetingID string) (bool, error) {
	if m.hasPresentEligibleFunc != nil {
		return m.hasPresentEligibleFunc(ctx, contributorID, meetingID)
	}
	return false, nil
}

func (m *mockStore) CountSubmissions(ctx context.Context, contributorID string) (int, error) {
	if m.countSubmissionsFunc != nil {
		return m.countSubmissionsFunc(ctx, contributorID)
	}
	return 0, nil
}

func (m *mockStore) GetForMeeting(ctx context.Context, contributorID, meetingID string) (*Certificate, error) {
	if m.getForMeetingFunc != nil {
		return m.getForMeetingFunc(ctx, contributorID, meetingID)
	}
	return nil, nil
}

func (m *mockStore) GetForQuiz(ctx context.Context, contributorID string) (*Certificate, error) {
	if m.getForQuizFunc != nil {
		return m.getForQuizFunc(ctx, contributorID)
	}
	return nil, nil
}

func (m *mockStore) GetBySerial(ctx context.Context, serial string) (*Certificate, error) {
	if m.getBySerialFunc != nil {
		return m.getBySerialFunc(ctx, serial)
	}
	return nil, nil
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*Certificate, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockStore) Insert(ctx context.Context, c Certificate) (*Certificate, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, c)
	}
	return &c, nil
}

func (m *mockStore) SetPDFURL(ctx context.Context, id, url string) error {
	if m.setPDFURLFunc != nil {
		return m.setPDFURLFunc(ctx, id, url)
	}
	return nil
}

func (m *mockStore) ListByContributor(ctx context.Context, contributorID string) ([]Certificate, error) {
	if m.listByContributorFunc != nil {
		return m.listByContributorFunc(ctx, contributorID)
	}
	return nil, nil
}

type mockDirectory struct {
	contributors map[string]member.Contributor
}

func (m *mockDirectory) FindByEmail(ctx context.Context, email string) (member.Contributor, error) {
	for _, c := range m.contributors {
		if c.Email == email {
			return c, nil
		}
	}
	return member.Contributor{}, apperr.New(apperr.CodeNotFound, "contributor not found")
}

func (m *mockDirectory) Get(ctx context.Context, id string) (member.Contributor, error) {
	if c, ok := m.contributors[id]; ok {
		return c, nil
	}
	return member.Contributor{}, apperr.New(apperr.CodeNotFound, "contributor not found")
}

func anaDirectory() *mockDirectory {
	return &mockDirectory{contributors: map[string]member.Contributor{
		"c1": {ID: "c1", Name: "Ana", Email: "ana@example.org", Points: 150, Active: true},
	}}
}

func TestEligibilityUnknownEmail(t *testing.T) {
	svc := NewService(&mockStore{}, anaDirectory(), 5)
	_, err := svc.Eligibility(context.Background(), "nobody@example.org")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestEligibilityReport(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &mockStore{
		listEligibleMeetingsFunc: func(ctx context.Context, contributorID string) ([]EligibleMeeting, error) {
			return []EligibleMeeting{
				{MeetingID: "m1", Title: "Kickoff"},
				{MeetingID: "m2", Title: "Workshop"},
				{MeetingID: "m3", Title: "Demo day"},
			}, nil
		},
		getForMeetingFunc: func(ctx context.Context, contributorID, meetingID string) (*Certificate, error) {
			if meetingID == "m2" {
				mid := meetingID
				return &Certificate{ID: "cert1", Serial: "SER-2", Kind: KindMeeting, MeetingID: &mid, IssuedAt: issued}, nil
			}
			return nil, nil
		},
		countSubmissionsFunc: func(ctx context.Context, contributorID string) (int, error) { return 3, nil },
	}
	svc := NewService(store, anaDirectory(), 5)

	report, err := svc.Eligibility(context.Background(), "ana@example.org")
	require.NoError(t, err)
	require.Len(t, report.Meetings, 3)
	assert.False(t, report.Meetings[0].Claimed)
	assert.True(t, report.Meetings[1].Claimed)
	assert.Equal(t, "SER-2", report.Meetings[1].Serial)
	assert.Equal(t, 3, report.Quiz.Submissions)
	assert.Equal(t, 5, report.Quiz.Required)
	assert.False(t, report.Quiz.Eligible)
	assert.Equal(t, member.TierBronze, report.Tier)
}

func TestEligibilityFreshContributor(t *testing.T) {
	store := &mockStore{
		listEligibleMeetingsFunc: func(ctx context.Context, contributorID string) ([]EligibleMeeting, error) {
			return []EligibleMeeting{{MeetingID: "m1"}, {MeetingID: "m2"}, {MeetingID: "m3"}}, nil
		},
	}
	svc := NewService(store, anaDirectory(), 5)
	report, err := svc.Eligibility(context.Background(), "ana@example.org")
	require.NoError(t, err)
	assert.Len(t, report.Meetings, 3)
	for _, m := range report.Meetings {
		assert.False(t, m.Claimed)
	}
	assert.Equal(t, 0, report.Quiz.Submissions)
	assert.False(t, report.Quiz.Eligible)
	assert.False(t, report.Quiz.Claimed)
}

func TestClaimMeeting(t *testing.T) {
	t.Run("not eligible without a present record", func(t *testing.T) {
		svc := NewService(&mockStore{}, anaDirectory(), 5)
		_, _, err := svc.Claim(context.Background(), "c1", KindMeeting, "m1")
		assert.True(t, errors.Is(err, apperr.ErrNotEligible))
	})

	t.Run("meeting id required", func(t *testing.T) {
		svc := NewService(&mockStore{}, anaDirectory(), 5)
		_, _, err := svc.Claim(context.Background(), "c1", KindMeeting, "")
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	})

	t.Run("first claim issues, second returns same serial", func(t *testing.T) {
		var saved *Certificate
		store := &mockStore{
			hasPresentEligibleFunc: func(ctx context.Context, contributorID, meetingID string) (bool, error) {
				return true, nil
			},
			getForMeetingFunc: func(ctx context.Context, contributorID, meetingID string) (*Certificate, error) {
				return saved, nil
			},
			insertFunc: func(ctx context.Context, c Certificate) (*Certificate, error) {
				saved = &c
				return &c, nil
			},
		}
		svc := NewService(store, anaDirectory(), 5)

		first, created, err := svc.Claim(context.Background(), "c1", KindMeeting, "m1")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, first.Serial)

		second, created, err := svc.Claim(context.Background(), "c1", KindMeeting, "m1")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.Serial, second.Serial)
	})

	t.Run("losing the insert race surfaces the winner's row", func(t *testing.T) {
		winner := &Certificate{ID: "certW", Serial: "SER-W", Kind: KindMeeting}
		calls := 0
		store := &mockStore{
			hasPresentEligibleFunc: func(ctx context.Context, contributorID, meetingID string) (bool, error) {
				return true, nil
			},
			getForMeetingFunc: func(ctx context.Context, contributorID, meetingID string) (*Certificate, error) {
				calls++
				if calls == 1 {
					return nil, nil // not yet visible at pre-check time
				}
				return winner, nil
			},
			insertFunc: func(ctx context.Context, c Certificate) (*Certificate, error) {
				return nil, nil // unique index declined
			},
		}
		svc := NewService(store, anaDirectory(), 5)
		cert, created, err := svc.Claim(context.Background(), "c1", KindMeeting, "m1")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "SER-W", cert.Serial)
	})
}

func TestClaimQuizMilestone(t *testing.T) {
	countStore := func(n int) *mockStore {
		return &mockStore{
			countSubmissionsFunc: func(ctx context.Context, contributorID string) (int, error) { return n, nil },
		}
	}

	t.Run("four submissions is not enough", func(t *testing.T) {
		svc := NewService(countStore(4), anaDirectory(), 5)
		_, _, err := svc.Claim(context.Background(), "c1", KindQuiz, "")
		assert.True(t, errors.Is(err, apperr.ErrNotEligible))
	})

	t.Run("five submissions issues", func(t *testing.T) {
		svc := NewService(countStore(5), anaDirectory(), 5)
		cert, created, err := svc.Claim(context.Background(), "c1", KindQuiz, "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, KindQuiz, cert.Kind)
		assert.Nil(t, cert.MeetingID)
	})
}

func TestClaimUnknownKind(t *testing.T) {
	svc := NewService(&mockStore{}, anaDirectory(), 5)
	_, _, err := svc.Claim(context.Background(), "c1", "diploma", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestClaimUnknownContributor(t *testing.T) {
	svc := NewService(&mockStore{}, anaDirectory(), 5)
	_, _, err := svc.Claim(context.Background(), "ghost", KindQuiz, "")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestVerify(t *testing.T) {
	cert := &Certificate{ID: "cert1", Serial: "SER-1", ContributorID: "c1", Kind: KindQuiz}
	store := &mockStore{
		getBySerialFunc: func(ctx context.Context, serial string) (*Certificate, error) {
			if serial == "SER-1" {
				return cert, nil
			}
			return nil, nil
		},
	}
	svc := NewService(store, anaDirectory(), 5)

	got, recipient, err := svc.Verify(context.Background(), "SER-1")
	require.NoError(t, err)
	assert.Equal(t, "SER-1", got.Serial)
	assert.Equal(t, "Ana", recipient.Name)

	_, _, err = svc.Verify(context.Background(), "SER-MISSING")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestNewSerialUniqueAndSortable(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := NewSerial()
		assert.Len(t, s, 26)
		assert.False(t, seen[s])
		seen[s] = true
	}
}

func TestVerifyURL(t *testing.T) {
	serial := NewSerial()
	url := VerifyURL("https://hub.example.org/", serial)
	assert.Equal(t, "https://hub.example.org/verify/"+serial, url)
	assert.True(t, strings.HasSuffix(url, serial))
}
