package models

import "time"

// Dashboard is the read-only aggregate shown on the home page.
type Dashboard struct {
	Summary        Summary    `json:"summary"`
	RecentActivity []Activity `json:"recentActivity"`
	QuickStats     QuickStats `json:"quickStats"`
}

// Summary holds the headline counters.
type Summary struct {
	TotalClients   int     `json:"totalClients"`
	ActiveProjects int     `json:"activeProjects"`
	PendingTasks   int     `json:"pendingTasks"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	CompletedTasks int     `json:"completedTasks"`
	OverdueItems   int     `json:"overdueItems"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	Type   string    `json:"type"`
	ID     int       `json:"id"`
	Title  string    `json:"title"`
	Client string    `json:"client,omitempty"`
	Time   time.Time `json:"time"`
}

// QuickStats covers the current week.
type QuickStats struct {
	WeekStart        time.Time `json:"weekStart"`
	ProjectsThisWeek int       `json:"projectsThisWeek"`
	TasksCompleted   int       `json:"tasksCompleted"`
	HoursTracked     float64   `json:"hoursTracked"`
	InvoicesSent     int       `json:"invoicesSent"`
}
