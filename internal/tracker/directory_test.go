package tracker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/tracker"
)

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "https://i.pravatar.cc/150?u=alex%40pm.ai", tracker.AvatarURL("alex@pm.ai"))
}

func TestRegister_AppendsWithGeneratedFields(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	u, err := tr.Directory.Register(ctx, "Dana", "dana@pm.ai")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, tracker.AvatarURL("dana@pm.ai"), u.Avatar)

	// Register does not enforce uniqueness.
	_, err = tr.Directory.Register(ctx, "Dana Two", "dana@pm.ai")
	require.NoError(t, err)

	users, err := tr.Directory.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, u, users[0])
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	u, err := tr.Directory.SignUp(ctx, " Dana ", "dana@pm.ai", "")
	require.NoError(t, err)
	assert.Equal(t, "Dana", u.Name)

	_, err = tr.Directory.SignUp(ctx, "Other", "DANA@pm.ai", "")
	assert.ErrorIs(t, err, tracker.ErrEmailTaken)

	_, err = tr.Directory.SignUp(ctx, "", "x@pm.ai", "")
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)
	_, err = tr.Directory.SignUp(ctx, "X", "  ", "")
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)

	custom, err := tr.Directory.SignUp(ctx, "Eve", "eve@pm.ai", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	found, err := tr.Directory.Lookup(ctx, "EVE@pm.ai")
	require.NoError(t, err)
	assert.Equal(t, custom, *found)
	assert.Equal(t, "data:image/png;base64,AAAA", found.Avatar)
}

func TestLookup_NotFound(t *testing.T) {
	tr, _, _ := newTracker(t)
	_, err := tr.Directory.Lookup(context.Background(), "nobody@pm.ai")
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestUpdate_RefreshesActiveSession(t *testing.T) {
	ctx := context.Background()
	tr, s, sessions := newTracker(t)

	_, err := s.Seed(ctx)
	require.NoError(t, err)
	_, err = sessions.SignIn(ctx, model.User{ID: "1", Name: "Alex Rivera", Email: "alex@pm.ai"})
	require.NoError(t, err)

	require.NoError(t, tr.Directory.Update(ctx, model.User{ID: "1", Name: "Alex R.", Email: "alex@pm.ai"}))

	sess, err := sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alex R.", sess.User.Name)

	require.NoError(t, tr.Directory.Update(ctx, model.User{ID: "2", Name: "Sarah C.", Email: "sarah@pm.ai"}))
	sess, err = sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", sess.User.ID)

	err = tr.Directory.Update(ctx, model.User{ID: "404", Name: "Nobody"})
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestInvite(t *testing.T) {
	ctx := context.Background()
	tr, s, _ := newTracker(t)
	_, err := s.Seed(ctx)
	require.NoError(t, err)

	u, created, err := tr.Directory.Invite(ctx, "Sarah@PM.ai")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "2", u.ID)

	u, created, err = tr.Directory.Invite(ctx, "jordan.lee@pm.ai")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "jordan.lee", u.Name)

	_, _, err = tr.Directory.Invite(ctx, "")
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)
}
