package models

import (
	"time"

	"github.com/jroosing/hydrawhois/internal/resolvers"
)

// ServerStatsResponse contains server runtime statistics.
type ServerStatsResponse struct {
	Uptime        string                  `json:"uptime"`
	UptimeSeconds int64                   `json:"uptime_seconds"`
	StartTime     time.Time               `json:"start_time"`
	GoRoutines    int                     `json:"goroutines"`
	MemoryAllocMB float64                 `json:"memory_alloc_mb"`
	NumCPU        int                     `json:"num_cpu"`
	Process       *ProcessStatsResponse   `json:"process,omitempty"`
	Whois         resolvers.StatsSnapshot `json:"whois"`
	History       *HistoryStatsResponse   `json:"history,omitempty"`
}

// ProcessStatsResponse is what the OS reports about this process.
type ProcessStatsResponse struct {
	RSSMB      float64 `json:"rss_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	NumThreads int32   `json:"num_threads"`
}

// HistoryStatsResponse describes the lookup history store.
type HistoryStatsResponse struct {
	Lookups       int64 `json:"lookups"`
	SchemaVersion uint  `json:"schema_version"`
}
