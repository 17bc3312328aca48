package tracker_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/tracker"
	"github.com/nhle/zenith/tests/testutil"
)

func TestLogs_AddComment(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	c, err := tr.Logs.AddComment(ctx, model.Comment{TaskID: "t1", UserID: "1", UserName: "Alex", Text: "first"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	_, err = tr.Logs.AddComment(ctx, model.Comment{TaskID: "t1", UserID: "1", Text: "second"})
	require.NoError(t, err)

	_, err = tr.Logs.AddComment(ctx, model.Comment{TaskID: "t1", Text: "   "})
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)

	comments, err := tr.Logs.Comments(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestLogs_ActivitiesCappedNewestFirst(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	for i := range 35 {
		_, err := tr.Logs.LogActivity(ctx, model.Activity{
			ProjectID: "p1", UserID: "1", UserName: "Alex",
			Action: model.ActionUpdated, TargetName: fmt.Sprintf("task %d", i),
		})
		require.NoError(t, err)
	}

	feed, err := tr.Logs.Activities(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, feed, tracker.ActivityFeedLimit)
	assert.Equal(t, "task 34", feed[0].TargetName)
	assert.Equal(t, "task 5", feed[29].TargetName)

	_, err = tr.Logs.LogActivity(ctx, model.Activity{ProjectID: "p1"})
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)
}

func TestLogs_RetentionIsConfigurable(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	logs := tracker.NewLogs(s, tracker.Options{ActivityRetention: 3}, nil)

	for i := range 5 {
		_, err := logs.LogActivity(ctx, model.Activity{
			ProjectID: "p1", Action: model.ActionCreated, TargetName: fmt.Sprintf("t%d", i),
		})
		require.NoError(t, err)
	}

	all, err := s.GetActivities(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "t4", all[0].TargetName)
	assert.Equal(t, "t2", all[2].TargetName)
}
