// Package model defines shared data structures.
package model

import "time"

// Config defines game session settings.
type Config struct {
	Refresh time.Duration
	Save    bool
	Debug   bool
}

// RegistryConfig defines where found items and their photos live.
type RegistryConfig struct {
	LabelsPath    string
	UploadsDir    string
	AdminPassword string
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Since *time.Time
	Last  int
}

// GameSession captures a finished idle game session.
type GameSession struct {
	ID            string
	StartedAt     time.Time
	EndedAt       time.Time
	Clicks        int64
	ClickEarned   int64
	PassiveEarned int64
	Spent         int64
	Purchases     int64
	Upgrades      int64
	FinalBalance  int64
	ClickPower    int64
	DurationMs    int64
	Helpers       []HelperCount
}

// HelperCount stores how many units of a helper a session ended with.
type HelperCount struct {
	HelperID string
	Count    int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID    string
	EndedAt      time.Time
	Clicks       int64
	Earned       int64
	Spent        int64
	FinalBalance int64
	ClickPower   int64
	DurationMs   int64
}

// HelperAggregate aggregates helper ownership across sessions.
type HelperAggregate struct {
	HelperID string
	Total    int64
	Sessions int
	Max      int64
}

// FoundItem is one entry of the lost & found register.
type FoundItem struct {
	ID          int64
	Category    string
	Location    string
	Description string
	ImagePath   string
	FoundAt     time.Time
}

// CategoryCount is the number of stored items in a category.
type CategoryCount struct {
	Category string
	Count    int
}
