package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// StatsPort defines the interface other modules use to request statistics.
// StatsService satisfies it directly; StatsAdapter satisfies it across the
// service container.
type StatsPort interface {
	Weekly(ctx context.Context) (*WeeklyStatsResponse, error)
}

// Compile-time interface checks.
var _ StatsPort = (*StatsService)(nil)
var _ StatsPort = (*StatsAdapter)(nil)

// StatsAdapter implements StatsPort using the service container.
type StatsAdapter struct {
	container mono.ServiceContainer
}

// NewStatsAdapter creates a new StatsAdapter.
func NewStatsAdapter(container mono.ServiceContainer) *StatsAdapter {
	return &StatsAdapter{
		container: container,
	}
}

// Weekly returns weekly completion statistics.
func (a *StatsAdapter) Weekly(ctx context.Context) (*WeeklyStatsResponse, error) {
	var req WeeklyStatsRequest
	var resp WeeklyStatsResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "weekly", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("weekly request failed: %w", err)
	}

	return &resp, nil
}
