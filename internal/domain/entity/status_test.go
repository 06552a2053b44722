package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationTransitions(t *testing.T) {
	cases := []struct {
		from ReservationStatus
		to   ReservationStatus
		err  error
	}{
		{ReservationStatusPending, ReservationStatusConfirmed, nil},
		{ReservationStatusPending, ReservationStatusCancelled, nil},
		{ReservationStatusConfirmed, ReservationStatusCompleted, nil},
		{ReservationStatusConfirmed, ReservationStatusCancelled, nil},
		{ReservationStatusPending, ReservationStatusCompleted, ErrInvalidStatusTransition},
		{ReservationStatusPending, ReservationStatusPending, ErrInvalidStatusTransition},
		{ReservationStatusCompleted, ReservationStatusCancelled, ErrInvalidStatusTransition},
		{ReservationStatusCancelled, ReservationStatusConfirmed, ErrInvalidStatusTransition},
		{ReservationStatusPending, ReservationStatus("approved"), ErrUnknownStatus},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			r := &Reservation{Status: tc.from}
			err := r.TransitionTo(tc.to)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Equal(t, tc.from, r.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, r.Status)
		})
	}
}

func TestReservationCancelRecordsReason(t *testing.T) {
	r := &Reservation{Status: ReservationStatusConfirmed}
	require.NoError(t, r.Cancel("flight moved"))
	assert.Equal(t, ReservationStatusCancelled, r.Status)
	assert.Equal(t, "flight moved", r.CancelReason)
	assert.True(t, r.IsTerminal())

	assert.ErrorIs(t, r.Cancel("again"), ErrInvalidStatusTransition)
	assert.Equal(t, "flight moved", r.CancelReason)
}

func TestReservationIsAssignedTo(t *testing.T) {
	interpreterID := uuid.New()
	r := &Reservation{}
	assert.False(t, r.IsAssignedTo(interpreterID))

	r.InterpreterID = &interpreterID
	assert.True(t, r.IsAssignedTo(interpreterID))
	assert.False(t, r.IsAssignedTo(uuid.New()))
}

func TestInterpreterTransitions(t *testing.T) {
	i := &Interpreter{Status: InterpreterStatusInactive}

	assert.ErrorIs(t, i.TransitionTo(InterpreterStatusSuspended), ErrInvalidStatusTransition)
	require.NoError(t, i.TransitionTo(InterpreterStatusActive))
	require.NoError(t, i.TransitionTo(InterpreterStatusSuspended))
	assert.ErrorIs(t, i.TransitionTo(InterpreterStatusInactive), ErrInvalidStatusTransition)
	require.NoError(t, i.TransitionTo(InterpreterStatusActive))
	require.NoError(t, i.TransitionTo(InterpreterStatusInactive))
	assert.ErrorIs(t, i.TransitionTo("retired"), ErrUnknownStatus)
}

func TestInterpreterCovers(t *testing.T) {
	i := &Interpreter{Specializations: []string{"Dermatology", " Plastic Surgery "}}

	assert.True(t, i.Covers("dermatology"))
	assert.True(t, i.Covers("PLASTIC SURGERY"))
	assert.False(t, i.Covers("Dental"))
	assert.False(t, (&Interpreter{}).Covers("Dental"))
}

func TestUserTransitions(t *testing.T) {
	u := &User{Status: UserStatusActive}

	require.NoError(t, u.TransitionTo(UserStatusActive))
	assert.Equal(t, UserStatusActive, u.Status)

	require.NoError(t, u.TransitionTo(UserStatusSuspended))
	assert.False(t, u.IsActive())

	require.NoError(t, u.TransitionTo(UserStatusActive))
	assert.ErrorIs(t, u.TransitionTo("banned"), ErrUnknownStatus)
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidReservationStatus("completed"))
	assert.False(t, IsValidReservationStatus("done"))
	assert.True(t, IsValidInterpreterStatus("suspended"))
	assert.False(t, IsValidInterpreterStatus(""))
	assert.True(t, IsValidPromotionStatus("upcoming"))
	assert.True(t, IsValidHospitalStatus("inactive"))
	assert.True(t, IsValidRole(RoleInterpreter))
	assert.False(t, IsValidRole("doctor"))
}
