package member

import "time"

// Contributor is a registered community member. Contributors are never
// deleted, only deactivated, so point history stays attributable.
type Contributor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	StudentID string    `json:"student_id"`
	Cohort    string    `json:"cohort"`
	Points    int       `json:"points"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// RedeemCode is a point-bearing code contributors can redeem once each.
// MaxUses of zero means unlimited.
type RedeemCode struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Points    int        `json:"points"`
	MaxUses   int        `json:"max_uses"`
	UsedCount int        `json:"used_count"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Redemption records one accepted code use by one contributor.
type Redemption struct {
	ID            string    `json:"id"`
	CodeID        string    `json:"code_id"`
	ContributorID string    `json:"contributor_id"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"created_at"`
}
