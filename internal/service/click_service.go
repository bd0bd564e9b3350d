package service

import (
	"context"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"
	"github.com/DaviAleixo/pollyana3-sub000/internal/worker"

	"github.com/rs/zerolog/log"
)

// ClickEnqueuer hands clicks to the async worker pool.
type ClickEnqueuer interface {
	EnqueueClick(ctx context.Context, payload worker.ClickPayload) error
}

// ClickService records storefront clicks asynchronously and reports the
// most clicked targets.
type ClickService interface {
	// Track never fails the caller: a lost click is only logged.
	Track(ctx context.Context, targetType, targetID string)
	Top(ctx context.Context, targetType string, limit int) ([]dto.ClickStatResponse, error)
}

type clickService struct {
	queue ClickEnqueuer
	repo  repository.ClickRepository
	now   func() time.Time
}

func NewClickService(queue ClickEnqueuer, repo repository.ClickRepository) ClickService {
	return &clickService{queue: queue, repo: repo, now: time.Now}
}

func (s *clickService) Track(ctx context.Context, targetType, targetID string) {
	payload := worker.ClickPayload{TargetType: targetType, TargetID: targetID, At: s.now().UTC()}
	if err := s.queue.EnqueueClick(ctx, payload); err != nil {
		log.Warn().Err(err).Str("target_type", targetType).Str("target_id", targetID).Msg("click dropped: enqueue failed")
	}
}

func (s *clickService) Top(ctx context.Context, targetType string, limit int) ([]dto.ClickStatResponse, error) {
	list, err := s.repo.Top(ctx, targetType, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClickStatResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ClickStatResponse{
			TargetType:  c.TargetType,
			TargetID:    c.TargetID,
			Clicks:      c.Clicks,
			LastClickAt: c.LastClickAt,
		})
	}
	return out, nil
}
