// Package certificate implements certificate eligibility and issuance.
// A certificate is immutable once issued: claims are idempotent and a
// store-level unique index keeps concurrent duplicates down to one row.
package certificate

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"community/internal/member"
)

// Certificate kinds.
const (
	KindMeeting = "meeting"
	KindQuiz    = "quiz"
)

// Certificate is an issued certificate record.
type Certificate struct {
	ID            string    `json:"id"`
	Serial        string    `json:"serial"`
	ContributorID string    `json:"contributor_id"`
	Kind          string    `json:"kind"`
	MeetingID     *string   `json:"meeting_id,omitempty"`
	PDFURL        string    `json:"pdf_url,omitempty"`
	IssuedAt      time.Time `json:"issued_at"`
}

// MeetingEntitlement is one claimable meeting certificate in an
// eligibility report.
type MeetingEntitlement struct {
	MeetingID    string     `json:"meeting_id"`
	MeetingTitle string     `json:"meeting_title"`
	MeetingDate  time.Time  `json:"meeting_date"`
	Claimed      bool       `json:"claimed"`
	Serial       string     `json:"serial,omitempty"`
	IssuedAt     *time.Time `json:"issued_at,omitempty"`
}

// QuizMilestone reports progress toward the quiz certificate.
type QuizMilestone struct {
	Submissions int        `json:"submissions"`
	Required    int        `json:"required"`
	Eligible    bool       `json:"eligible"`
	Claimed     bool       `json:"claimed"`
	Serial      string     `json:"serial,omitempty"`
	IssuedAt    *time.Time `json:"issued_at,omitempty"`
}

// Eligibility is the full claimable-certificate report for one contributor.
type Eligibility struct {
	Contributor member.Contributor   `json:"contributor"`
	Tier        member.TierName      `json:"tier"`
	Meetings    []MeetingEntitlement `json:"meetings"`
	Quiz        QuizMilestone        `json:"quiz"`
}

// NewSerial returns a collision-resistant certificate serial. ULIDs sort
// by issue time and the store's unique index backs them up.
func NewSerial() string {
	return ulid.Make().String()
}

// VerifyURL builds the public verification URL a certificate's QR code
// encodes.
func VerifyURL(baseURL, serial string) string {
	return strings.TrimRight(baseURL, "/") + "/verify/" + serial
}
