package postgres

import (
	"testing"
	"time"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementWhere_UserOnly(t *testing.T) {
	where, args := movementWhere(7, domain.MovementFilter{})

	assert.Equal(t, "m.user_id = $1", where)
	assert.Equal(t, []any{int32(7)}, args)
}

func TestMovementWhere_AllFilters(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	categoryID := int32(3)
	categoryType := domain.CategoryTypeMinijob

	where, args := movementWhere(7, domain.MovementFilter{
		From:         &from,
		To:           &to,
		CategoryID:   &categoryID,
		CategoryType: &categoryType,
	})

	assert.Equal(t,
		"m.user_id = $1 AND m.movement_date >= $2 AND m.movement_date < $3 AND m.category_id = $4 AND c.category_type = $5",
		where)
	require.Len(t, args, 5)
	assert.Equal(t, timeToPgDate(from), args[1])
	assert.Equal(t, timeToPgDate(to), args[2])
	assert.Equal(t, int32(3), args[3])
	assert.Equal(t, "Minijob", args[4])
}
