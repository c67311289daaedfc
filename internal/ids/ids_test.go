package ids

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicID_Format(t *testing.T) {
	re := regexp.MustCompile(`^cust-\d{5}-\d{4}$`)

	for i := 0; i < 100; i++ {
		id, err := NewPublicID("cust")
		require.NoError(t, err)
		assert.Regexp(t, re, id)
	}
}

func TestNewPublicID_PrefixCarriedThrough(t *testing.T) {
	for _, prefix := range []string{"cust", "proj", "inv"} {
		id, err := NewPublicID(prefix)
		require.NoError(t, err)
		assert.Regexp(t, "^"+prefix+"-", id)
	}
}
