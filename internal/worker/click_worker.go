package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

const JobClick = "click"

// ClickPayload is one storefront click waiting to be counted.
type ClickPayload struct {
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	At         time.Time `json:"at"`
}

// NewClickHandler folds click jobs into the per-target counters.
// Malformed payloads are logged and dropped; retrying cannot fix them.
func NewClickHandler(repo repository.ClickRepository) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) error {
		var p ClickPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			log.Error().Err(err).Msg("click_worker: invalid payload")
			return nil
		}
		if p.TargetType == "" || p.TargetID == "" {
			log.Warn().Msg("click_worker: empty target — skipping")
			return nil
		}
		if p.At.IsZero() {
			p.At = time.Now().UTC()
		}
		if err := repo.Increment(ctx, p.TargetType, p.TargetID, 1, p.At); err != nil {
			return fmt.Errorf("click_worker: increment: %w", err)
		}
		return nil
	}
}
