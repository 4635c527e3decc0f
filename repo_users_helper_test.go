package users

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPrepareUserDefaults(t *testing.T) {
	t.Run("fills registration defaults", func(t *testing.T) {
		record := &User{Email: "tuna@example.com"}

		prepareUserDefaults(record)

		assert.Equal(t, RoleUser, record.Role)
		assert.Equal(t, "tuna@example.com", record.Username)
		assert.NotEqual(t, uuid.Nil, record.ID)
		assert.True(t, record.IsActive)
	})

	t.Run("keeps values that are already set", func(t *testing.T) {
		id := uuid.New()
		record := &User{
			ID:       id,
			Email:    "tuna@example.com",
			Username: "tuna",
			Role:     RoleAdmin,
		}

		prepareUserDefaults(record)

		assert.Equal(t, id, record.ID)
		assert.Equal(t, "tuna", record.Username)
		assert.Equal(t, RoleAdmin, record.Role)
	})

	t.Run("tolerates nil", func(t *testing.T) {
		assert.NotPanics(t, func() {
			prepareUserDefaults(nil)
		})
	})
}
