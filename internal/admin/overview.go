// AngelaMos | 2026
// overview.go

package admin

import (
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/yassaka/internal/money"
	"github.com/carterperez-dev/yassaka/internal/proposal"
)

type OverviewResponse struct {
	Proposals      ProposalSummary     `json:"proposals"`
	Records        map[string]int64    `json:"records"`
	ActiveAccounts map[string]int64    `json:"active_accounts"`
	System         SystemStatsResponse `json:"system"`
}

type ProposalSummary struct {
	Count         int64              `json:"count"`
	Value         string             `json:"value"`
	ValueDisplay  string             `json:"value_display"`
	ByTemperature []TemperatureTotal `json:"by_temperature"`
}

type TemperatureTotal struct {
	Code         string `json:"code"`
	Label        string `json:"label"`
	Count        int64  `json:"count"`
	Value        string `json:"value"`
	ValueDisplay string `json:"value_display"`
}

// summarizeProposals lists every tag, including those with no proposals,
// in Hot, Warm, Cold order.
func summarizeProposals(totals []proposal.TagTotal) ProposalSummary {
	byTag := make(map[proposal.Temperature]proposal.TagTotal, len(totals))
	for _, t := range totals {
		byTag[t.Temperature] = t
	}

	summary := ProposalSummary{
		ByTemperature: make([]TemperatureTotal, 0, len(proposal.Temperatures)),
	}
	sum := decimal.Zero

	for _, tag := range proposal.Temperatures {
		t := byTag[tag]
		summary.Count += t.Count
		sum = sum.Add(t.Value)
		summary.ByTemperature = append(summary.ByTemperature, TemperatureTotal{
			Code:         string(tag),
			Label:        tag.Label(),
			Count:        t.Count,
			Value:        money.Canonical(t.Value),
			ValueDisplay: money.FormatBRL(t.Value),
		})
	}

	summary.Value = money.Canonical(sum)
	summary.ValueDisplay = money.FormatBRL(sum)
	return summary
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
