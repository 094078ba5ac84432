package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("admin-1", "admin", "community-hub", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(pair.AccessToken, "test-key", "community-hub")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseRejectsWrongKey(t *testing.T) {
	pair, err := Issue("admin-1", "admin", "community-hub", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-key", "community-hub")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	pair, err := Issue("admin-1", "admin", "somewhere-else", "test-key", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "test-key", "community-hub")
	assert.Error(t, err)
}

func TestAllow(t *testing.T) {
	cases := []struct {
		role   string
		action Action
		want   bool
	}{
		{"admin", ActionManageMembers, true},
		{"admin", ActionIssueCertificates, true},
		{"admin", ActionReviewPosts, true},
		{"editor", ActionWritePosts, true},
		{"editor", ActionReviewPosts, true},
		{"editor", ActionManageMeetings, false},
		{"editor", ActionIssueCertificates, false},
		{"", ActionWritePosts, false},
		{"guest", ActionManageCodes, false},
	}
	for _, tc := range cases {
		got := Allow(Claims{Role: tc.role}, tc.action, "")
		assert.Equal(t, tc.want, got, "%s %s", tc.role, tc.action)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
