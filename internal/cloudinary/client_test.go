package cloudinary

import (
	"crypto/sha1"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	c := New("demo", "key123", "secret", "community")

	params := map[string]string{
		"timestamp": "1700000000",
		"folder":    "community",
		"api_key":   "key123",
	}
	got := c.sign(params)

	// api_key is excluded, remaining params sorted
	h := sha1.New()
	h.Write([]byte("folder=community&timestamp=1700000000secret"))
	want := fmt.Sprintf("%x", h.Sum(nil))
	assert.Equal(t, want, got)

	// empty values do not participate
	params["public_id"] = ""
	assert.Equal(t, want, c.sign(params))
}
