package stats

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	domain "github.com/example/task-tracker-demo/domain/task"
	"github.com/example/task-tracker-demo/modules/task"
)

// StatsService derives weekly completion statistics from the full task set.
// Nothing is cached: every call recomputes from current storage.
type StatsService struct {
	tasks task.TaskPort
}

// NewStatsService creates a new StatsService.
func NewStatsService(tasks task.TaskPort) *StatsService {
	return &StatsService{tasks: tasks}
}

// Weekly returns completion statistics bucketed by the ISO week of each
// task's creation time. With no tasks it returns an empty list and a
// no-data message rather than an error.
func (s *StatsService) Weekly(ctx context.Context) (*WeeklyStatsResponse, error) {
	all, err := s.tasks.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(all) == 0 {
		return &WeeklyStatsResponse{
			Message:     "No tasks found",
			TotalWeeks:  0,
			WeeklyStats: []WeeklyStat{},
		}, nil
	}

	stats := ComputeWeeklyStats(all)
	return &WeeklyStatsResponse{
		Message:     fmt.Sprintf("Weekly statistics for %d weeks", len(stats)),
		TotalWeeks:  len(stats),
		WeeklyStats: stats,
	}, nil
}

// ComputeWeeklyStats partitions tasks by the ISO-8601 (year, week) of their
// creation time and computes per-week totals, completed counts and the
// completion percentage rounded to 2 decimals. Weeks come back sorted
// ascending by (year, week). Only non-empty buckets exist, so the total of
// every emitted week is > 0.
func ComputeWeeklyStats(tasks []*domain.Task) []WeeklyStat {
	type bucket struct {
		year      int
		week      int
		total     int
		completed int
	}

	buckets := make(map[string]*bucket)
	for _, t := range tasks {
		year, week := t.CreatedAt.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		b := buckets[key]
		if b == nil {
			b = &bucket{year: year, week: week}
			buckets[key] = b
		}
		b.total++
		if t.Status == domain.StatusCompleted {
			b.completed++
		}
	}

	stats := make([]WeeklyStat, 0, len(buckets))
	for key, b := range buckets {
		weekStart := isoWeekStart(b.year, b.week)
		weekEnd := weekStart.AddDate(0, 0, 6)
		percentage := math.Round(float64(b.completed)/float64(b.total)*100*100) / 100

		stats = append(stats, WeeklyStat{
			Week:                 key,
			WeekStart:            weekStart.Format("2006-01-02"),
			WeekEnd:              weekEnd.Format("2006-01-02"),
			TotalTasks:           b.total,
			CompletedTasks:       b.completed,
			CompletionPercentage: percentage,
		})
	}

	// Keys are zero-padded "YYYY-Www", so string order is chronological.
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Week < stats[j].Week
	})
	return stats
}

// isoWeekStart returns the Monday of the given ISO week.
func isoWeekStart(year, week int) time.Time {
	// January 4th is always inside ISO week 1
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
