package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-tracker-demo/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// StatsModule derives weekly completion statistics from the task module.
type StatsModule struct {
	service  *StatsService
	taskPort task.TaskPort
}

// Compile-time interface checks.
var _ mono.Module = (*StatsModule)(nil)
var _ mono.DependentModule = (*StatsModule)(nil)
var _ mono.ServiceProviderModule = (*StatsModule)(nil)
var _ mono.HealthCheckableModule = (*StatsModule)(nil)

// NewModule creates a new StatsModule.
func NewModule() *StatsModule {
	return &StatsModule{}
}

// Name returns the module name.
func (m *StatsModule) Name() string {
	return "stats"
}

// Dependencies returns the list of module dependencies.
func (m *StatsModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *StatsModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// Start initializes the stats module.
func (m *StatsModule) Start(_ context.Context) error {
	if m.taskPort == nil {
		return fmt.Errorf("task dependency not set")
	}
	m.service = NewStatsService(m.taskPort)
	log.Println("[stats] Module started")
	return nil
}

// Stop shuts down the module.
func (m *StatsModule) Stop(_ context.Context) error {
	log.Println("[stats] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *StatsModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.service != nil,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *StatsModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "weekly", json.Unmarshal, json.Marshal, m.handleWeekly,
	); err != nil {
		return fmt.Errorf("failed to register weekly service: %w", err)
	}

	log.Printf("[stats] Registered services: weekly")
	return nil
}

// handleWeekly handles weekly statistics requests.
func (m *StatsModule) handleWeekly(ctx context.Context, _ WeeklyStatsRequest, _ *mono.Msg) (WeeklyStatsResponse, error) {
	resp, err := m.service.Weekly(ctx)
	if err != nil {
		return WeeklyStatsResponse{}, err
	}
	return *resp, nil
}
