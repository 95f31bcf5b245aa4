package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBase_BeforeCreate(t *testing.T) {
	var b Base
	require.NoError(t, b.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, b.ID)

	fixed := uuid.New()
	b = Base{ID: fixed}
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, fixed, b.ID)
}

func TestAll_DependencyOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 6)

	// Invitations reference customers and admins, users come last.
	assert.IsType(t, &Admin{}, all[0])
	assert.IsType(t, &Customer{}, all[1])
	assert.IsType(t, &Invitation{}, all[4])
	assert.IsType(t, &User{}, all[5])
}

func TestInvitation_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  InvitationStatus
		expires time.Time
		want    bool
	}{
		{"pending past expiry", InvitationStatusPending, now.Add(-time.Minute), true},
		{"sent past expiry", InvitationStatusSent, now.Add(-time.Minute), true},
		{"pending before expiry", InvitationStatusPending, now.Add(time.Minute), false},
		{"accepted past expiry", InvitationStatusAccepted, now.Add(-time.Hour), false},
		{"already expired", InvitationStatusExpired, now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invitation{Status: tt.status, ExpiresAt: tt.expires}
			assert.Equal(t, tt.want, inv.IsExpired(now))
		})
	}
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, InvitationStatusCancelled.Valid())
	assert.False(t, InvitationStatus("revoked").Valid())
	assert.True(t, ContractStatusSuspended.Valid())
	assert.False(t, ContractStatus("paused").Valid())
}

func TestStore_WeeklyHours(t *testing.T) {
	t.Run("weekly layout", func(t *testing.T) {
		var s Store
		require.NoError(t, s.SetWeeklyHours([]BusinessHours{
			{DayOfWeek: 0, IsClosed: true},
			{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00"},
		}))
		assert.JSONEq(t,
			`[{"dayOfWeek":0,"openTime":"","closeTime":"","isClosed":true},{"dayOfWeek":1,"openTime":"09:00","closeTime":"18:00","isClosed":false}]`,
			string(s.BusinessHours))

		hours, ok := s.WeeklyHours()
		require.True(t, ok)
		assert.Equal(t, "18:00", hours[1].CloseTime)
	})

	t.Run("empty document", func(t *testing.T) {
		var s Store
		_, ok := s.WeeklyHours()
		assert.False(t, ok)
	})

	t.Run("free-form document", func(t *testing.T) {
		s := Store{BusinessHours: datatypes.JSON(`{"mon":"9-5"}`)}
		_, ok := s.WeeklyHours()
		assert.False(t, ok)
	})

	t.Run("day out of range", func(t *testing.T) {
		s := Store{BusinessHours: datatypes.JSON(`[{"dayOfWeek":7}]`)}
		_, ok := s.WeeklyHours()
		assert.False(t, ok)
	})
}
