// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/yassaka/internal/account"
	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/proposal"
)

type ProposalTotals interface {
	TotalsByTemperature(ctx context.Context) ([]proposal.TagTotal, error)
}

type AccountCounts interface {
	CountActiveByRole(ctx context.Context) ([]account.RoleCount, error)
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// NamedCounter reports the row count of one record kind under Name.
type NamedCounter struct {
	Name    string
	Counter Counter
}

type Handler struct {
	proposals  ProposalTotals
	accounts   AccountCounts
	counters   []NamedCounter
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
}

type HandlerConfig struct {
	Proposals  ProposalTotals
	Accounts   AccountCounts
	Counters   []NamedCounter
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		proposals:  cfg.Proposals,
		accounts:   cfg.Accounts,
		counters:   cfg.Counters,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.With(authenticator, adminOnly).Get("/admin/overview", h.GetOverview)
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.collect(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	overview.System = h.systemStats(r.Context())
	core.OK(w, overview)
}

// collect runs the store queries concurrently. Any failure fails the
// whole overview.
func (h *Handler) collect(ctx context.Context) (*OverviewResponse, error) {
	g, gctx := errgroup.WithContext(ctx)

	var totals []proposal.TagTotal
	g.Go(func() error {
		var err error
		totals, err = h.proposals.TotalsByTemperature(gctx)
		return err
	})

	var roles []account.RoleCount
	g.Go(func() error {
		var err error
		roles, err = h.accounts.CountActiveByRole(gctx)
		return err
	})

	counts := make([]int64, len(h.counters))
	for i, nc := range h.counters {
		g.Go(func() error {
			n, err := nc.Counter.Count(gctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", nc.Name, err)
			}
			counts[i] = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin overview: %w", err)
	}

	overview := &OverviewResponse{
		Proposals:      summarizeProposals(totals),
		Records:        make(map[string]int64, len(h.counters)),
		ActiveAccounts: make(map[string]int64, len(roles)),
	}
	for i, nc := range h.counters {
		overview.Records[nc.Name] = counts[i]
	}
	for _, rc := range roles {
		overview.ActiveAccounts[rc.Role] = int64(rc.Count)
	}

	return overview, nil
}

func (h *Handler) systemStats(ctx context.Context) SystemStatsResponse {
	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
			NumGC:        memStats.NumGC,
		},
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
