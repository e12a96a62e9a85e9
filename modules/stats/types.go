package stats

// WeeklyStat holds completion metrics for one ISO week. week_start and
// week_end are the Monday and Sunday of that week as calendar dates.
type WeeklyStat struct {
	Week                 string  `json:"week"`
	WeekStart            string  `json:"week_start"`
	WeekEnd              string  `json:"week_end"`
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// WeeklyStatsRequest is the request for weekly statistics.
type WeeklyStatsRequest struct{}

// WeeklyStatsResponse is the response containing per-week statistics in
// chronological order.
type WeeklyStatsResponse struct {
	Message     string       `json:"message"`
	TotalWeeks  int          `json:"total_weeks"`
	WeeklyStats []WeeklyStat `json:"weekly_stats"`
}
