package service

import (
	"context"
	"testing"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrack_EnqueuesAndNeverFails(t *testing.T) {
	queue := &stubQueue{}
	svc := NewClickService(queue, &stubClickRepo{})

	svc.Track(context.Background(), model.ClickBanner, "b-1")
	require.Len(t, queue.payloads, 1)
	assert.Equal(t, "b-1", queue.payloads[0].TargetID)
	assert.False(t, queue.payloads[0].At.IsZero())

	queue.fail = true
	svc.Track(context.Background(), model.ClickBanner, "b-2")
	assert.Len(t, queue.payloads, 1)
}

func TestTop(t *testing.T) {
	repo := &stubClickRepo{stats: []model.ClickStat{
		{TargetType: model.ClickProduct, TargetID: "p-1", Clicks: 4, LastClickAt: time.Now()},
		{TargetType: model.ClickBanner, TargetID: "b-1", Clicks: 2},
	}}
	stats, err := NewClickService(&stubQueue{}, repo).Top(context.Background(), model.ClickProduct, 10)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(4), stats[0].Clicks)
}
