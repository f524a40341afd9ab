package application

import (
	"context"

	"smart-home-agent/internal/domain"
)

// Hub is an authenticated session against the home-automation hub.
type Hub interface {
	Accessories(ctx context.Context) ([]domain.Accessory, error)
	SetCharacteristic(ctx context.Context, accessoryID, characteristic string, value int) error
}
