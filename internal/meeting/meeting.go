package meeting

import "time"

// Attendance statuses for a participation record.
const (
	StatusPresent = "present"
	StatusExcused = "excused"
	StatusAbsent  = "absent"
)

// Meeting is a community gathering. The certificate_eligible flag is
// append-only: it can be set, never retracted, so issued certificates
// always trace back to an eligible meeting.
type Meeting struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Date                time.Time `json:"date"`
	Minutes             string    `json:"minutes"`
	CertificateEligible bool      `json:"certificate_eligible"`
	CreatedAt           time.Time `json:"created_at"`
}

// ParticipationRecord is one contributor's attendance at one meeting,
// with the points the admin awarded for it.
type ParticipationRecord struct {
	ID            string    `json:"id"`
	ContributorID string    `json:"contributor_id"`
	MeetingID     string    `json:"meeting_id"`
	Status        string    `json:"status"`
	Points        int       `json:"points"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidStatus reports whether s is a known attendance status.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusExcused || s == StatusAbsent
}
