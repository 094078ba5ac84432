package auth

// Action names a mutating operation an actor may attempt.
type Action string

const (
	ActionManageMembers     Action = "members.manage"
	ActionManageMeetings    Action = "meetings.manage"
	ActionManageQuizzes     Action = "quizzes.manage"
	ActionManageCodes       Action = "codes.manage"
	ActionIssueCertificates Action = "certificates.issue"
	ActionWritePosts        Action = "posts.write"
	ActionReviewPosts       Action = "posts.review"
)

// Allow is the single capability check used by every mutating endpoint.
// Admins can do everything; editors are limited to the blog workflow.
func Allow(actor Claims, action Action, resource string) bool {
	switch actor.Role {
	case "admin":
		return true
	case "editor":
		return action == ActionWritePosts || action == ActionReviewPosts
	default:
		return false
	}
}
