package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRelease(t *testing.T) {
	a := Release("org.example", "app", "1.0.0")

	assert.Equal(t, uuid.Version(5), a.Version())
	assert.Equal(t, a, Release("org.example", "app", "1.0.0"), "identity is deterministic")

	for _, other := range []uuid.UUID{
		Release("org.example", "app", "1.0.1"),
		Release("org.example", "lib", "1.0.0"),
		Release("com.example", "app", "1.0.0"),
		Release("org.example:app", "", "1.0.0"),
	} {
		assert.NotEqual(t, a, other)
	}
}
