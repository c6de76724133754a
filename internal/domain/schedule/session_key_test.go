package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionKeyDeterministic(t *testing.T) {
	a := SessionKey(42, "2025-06-01", "08:00")
	b := SessionKey(42, "2025-06-01", "08:00")
	assert.Equal(t, a, b)

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestSessionKeyDistinguishesInputs(t *testing.T) {
	base := SessionKey(42, "2025-06-01", "08:00")

	assert.NotEqual(t, base, SessionKey(43, "2025-06-01", "08:00"))
	assert.NotEqual(t, base, SessionKey(42, "2025-06-02", "08:00"))
	assert.NotEqual(t, base, SessionKey(42, "2025-06-01", "08:15"))
}
