package chatsync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionSubmitTrimsAndLocks(t *testing.T) {
	var s session

	require.Equal(t, SessionAnonymous, s.snapshot().State)

	err := s.submit("   ")
	require.ErrorIs(t, err, NewError(ErrorInvalidUsername, ""))
	require.Equal(t, SessionAnonymous, s.snapshot().State)

	require.NoError(t, s.submit("  alice  "))
	snap := s.snapshot()
	require.Equal(t, "alice", snap.Username)
	require.Equal(t, SessionSubmitting, snap.State)
	require.False(t, snap.Authenticated)

	// optimistic lock: no second submission while one is in flight
	err = s.submit("bob")
	require.ErrorIs(t, err, NewError(ErrorUsernameLocked, ""))
	require.Equal(t, "alice", s.snapshot().Username)
}

func TestSessionLoggedInOnlyFromSubmitting(t *testing.T) {
	var s session

	// loggedin while anonymous is inert
	require.False(t, s.loggedIn())
	require.Equal(t, SessionAnonymous, s.snapshot().State)

	require.NoError(t, s.submit("alice"))
	require.True(t, s.loggedIn())

	snap := s.snapshot()
	require.Equal(t, SessionAuthenticated, snap.State)
	require.True(t, snap.Authenticated)
	require.NotEmpty(t, snap.Username)

	// authenticated is terminal, a duplicate loggedin does nothing
	require.False(t, s.loggedIn())
	require.Equal(t, SessionAuthenticated, s.snapshot().State)

	err := s.submit("bob")
	require.ErrorIs(t, err, NewError(ErrorUsernameLocked, ""))
}

func TestSessionReset(t *testing.T) {
	var s session
	require.NoError(t, s.submit("alice"))
	require.True(t, s.loggedIn())

	s.reset()
	snap := s.snapshot()
	require.Equal(t, SessionAnonymous, snap.State)
	require.Empty(t, snap.Username)
	require.False(t, snap.Authenticated)
}
