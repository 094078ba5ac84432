package blog

import (
	"regexp"
	"strings"
	"time"
)

// Post statuses in the review workflow.
const (
	StatusDraft     = "draft"
	StatusInReview  = "in_review"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// Post is a blog entry moving through the review workflow.
type Post struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Body         string     `json:"body"`
	CoverURL     string     `json:"cover_url,omitempty"`
	AuthorID     string     `json:"author_id"`
	Status       string     `json:"status"`
	ReviewerNote string     `json:"reviewer_note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

var transitions = map[string][]string{
	StatusDraft:    {StatusInReview},
	StatusInReview: {StatusPublished, StatusRejected},
	StatusRejected: {StatusInReview},
}

// ValidTransition reports whether a post may move from one status to another.
func ValidTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL slug.
func Slugify(title string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
