package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClickRepo struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   int // number of calls that fail before succeeding
	calls  int
}

var _ repository.ClickRepository = (*stubClickRepo)(nil)

func (r *stubClickRepo) Increment(_ context.Context, targetType, targetID string, n int64, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls <= r.fail {
		return errors.New("db down")
	}
	if r.counts == nil {
		r.counts = make(map[string]int64)
	}
	r.counts[targetType+"/"+targetID] += n
	return nil
}

func (r *stubClickRepo) Top(context.Context, string, int) ([]model.ClickStat, error) {
	return nil, nil
}

type deadLetter struct {
	job      Job
	reason   string
	attempts int
}

func newTestPool(repo repository.ClickRepository) (*Pool, *[]deadLetter) {
	p := NewPool(nil)
	p.backoff = time.Millisecond
	var dead []deadLetter
	p.deadLetter = func(_ context.Context, _ string, job Job, reason string, attempts int) {
		dead = append(dead, deadLetter{job: job, reason: reason, attempts: attempts})
	}
	p.Handle(JobClick, NewClickHandler(repo))
	return p, &dead
}

func rawClick(t *testing.T, targetType, targetID string) string {
	t.Helper()
	payload, err := json.Marshal(ClickPayload{TargetType: targetType, TargetID: targetID, At: time.Now()})
	require.NoError(t, err)
	raw, err := json.Marshal(Job{Type: JobClick, Payload: payload})
	require.NoError(t, err)
	return string(raw)
}

func TestPool_ProcessesClick(t *testing.T) {
	repo := &stubClickRepo{}
	p, dead := newTestPool(repo)

	p.process(context.Background(), QueueClicks, rawClick(t, model.ClickProduct, "abc"))
	p.process(context.Background(), QueueClicks, rawClick(t, model.ClickProduct, "abc"))

	assert.Equal(t, int64(2), repo.counts["product/abc"])
	assert.Empty(t, *dead)
}

func TestPool_RetriesThenSucceeds(t *testing.T) {
	repo := &stubClickRepo{fail: 2}
	p, dead := newTestPool(repo)

	p.process(context.Background(), QueueClicks, rawClick(t, model.ClickBanner, "b1"))

	assert.Equal(t, 3, repo.calls)
	assert.Equal(t, int64(1), repo.counts["banner/b1"])
	assert.Empty(t, *dead)
}

func TestPool_DeadLettersAfterMaxAttempts(t *testing.T) {
	repo := &stubClickRepo{fail: 10}
	p, dead := newTestPool(repo)

	p.process(context.Background(), QueueClicks, rawClick(t, model.ClickWhatsApp, "checkout"))

	assert.Equal(t, defaultMaxAttempts, repo.calls)
	require.Len(t, *dead, 1)
	assert.Equal(t, defaultMaxAttempts, (*dead)[0].attempts)
	assert.Contains(t, (*dead)[0].reason, "db down")
}

func TestPool_UnknownJobTypeIsDeadLettered(t *testing.T) {
	p, dead := newTestPool(&stubClickRepo{})

	p.process(context.Background(), QueueClicks, `{"type":"email","payload":{}}`)

	require.Len(t, *dead, 1)
	assert.Equal(t, "email", (*dead)[0].job.Type)
	assert.Equal(t, 0, (*dead)[0].attempts)
}

func TestPool_MalformedJobIsDropped(t *testing.T) {
	repo := &stubClickRepo{}
	p, dead := newTestPool(repo)

	p.process(context.Background(), QueueClicks, "not json")

	assert.Zero(t, repo.calls)
	assert.Empty(t, *dead)
}

func TestClickHandler_SkipsEmptyTarget(t *testing.T) {
	repo := &stubClickRepo{}
	h := NewClickHandler(repo)

	err := h(context.Background(), json.RawMessage(`{"target_type":"product","target_id":""}`))

	require.NoError(t, err)
	assert.Zero(t, repo.calls)
}
