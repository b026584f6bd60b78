package goadmin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	sess, err := store.Create("User", "1", "admin")
	require.NoError(t, err)
	assert.Len(t, sess.ID, 24)
	assert.Equal(t, "User", sess.Model)
	assert.Equal(t, "1", sess.UserID)
	assert.Equal(t, "admin", sess.Username)
	assert.True(t, sess.Expires.After(sess.Created))

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess, got)

	store.Delete(sess.ID)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)

	// Deleting an unknown ID is a no-op.
	store.Delete("nope")
}

func TestSessionIDsAreUnique(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		sess, err := store.Create("User", "1", "admin")
		require.NoError(t, err)
		require.False(t, seen[sess.ID], "duplicate session ID %q", sess.ID)
		seen[sess.ID] = true
	}
}

func TestDeleteModelOnlyTouchesItsSessions(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	user, err := store.Create("User", "1", "admin")
	require.NoError(t, err)
	editor, err := store.Create("Editor", "7", "ed")
	require.NoError(t, err)

	store.DeleteModel("User")

	_, ok := store.Get(user.ID)
	assert.False(t, ok)
	_, ok = store.Get(editor.ID)
	assert.True(t, ok, "sessions of other models must survive the cascade")
}

func TestSessionTTL(t *testing.T) {
	store := NewMemorySessionStore(20 * time.Millisecond)

	sess, err := store.Create("User", "1", "admin")
	require.NoError(t, err)

	_, ok := store.Get(sess.ID)
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok, "expired sessions must read as absent")
}
