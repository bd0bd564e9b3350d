package dto

import "time"

type TrackClickRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=product banner category whatsapp"`
	TargetID   string `json:"target_id"   validate:"required,max=64"`
}

type ClickStatResponse struct {
	TargetType  string    `json:"target_type"`
	TargetID    string    `json:"target_id"`
	Clicks      int64     `json:"clicks"`
	LastClickAt time.Time `json:"last_click_at"`
}
