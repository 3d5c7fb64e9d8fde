package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// StatisticsOutput is the combined dashboard payload: one call carries the
// overview, the per-status counts and the per-source performance.
type StatisticsOutput struct {
	Overview     *entity.Overview            `json:"overview"`
	StatusCounts map[string]int              `json:"status_counts"`
	Sources      []*entity.SourcePerformance `json:"sources"`
}

// LeadStatsUseCase serves the read-only aggregates, optionally behind a
// short-TTL cache. Cache failures are logged and ignored; statistics are
// dashboards, not invariants.
type LeadStatsUseCase struct {
	Stats    StatsRepositoryInterface
	Cache    StatsCache // nil when Redis is not configured
	Timezone string
	Logger   *zap.Logger
}

func NewLeadStatsUseCase(stats StatsRepositoryInterface, cache StatsCache, timezone string, logger *zap.Logger) *LeadStatsUseCase {
	if timezone == "" {
		timezone = "UTC"
	}
	return &LeadStatsUseCase{Stats: stats, Cache: cache, Timezone: timezone, Logger: logger}
}

func (uc *LeadStatsUseCase) Statistics(ctx context.Context) (*StatisticsOutput, error) {
	var out StatisticsOutput
	if uc.cacheGet(ctx, "stats:statistics", &out) {
		return &out, nil
	}

	overview, err := uc.Stats.Overview(ctx, uc.Timezone)
	if err != nil {
		return nil, err
	}
	statusCounts, err := uc.Stats.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	sources, err := uc.Stats.SourcePerformance(ctx)
	if err != nil {
		return nil, err
	}

	out = StatisticsOutput{Overview: overview, StatusCounts: statusCounts, Sources: sources}
	uc.cacheSet(ctx, "stats:statistics", &out)
	return &out, nil
}

func (uc *LeadStatsUseCase) Overview(ctx context.Context) (*entity.Overview, error) {
	var o entity.Overview
	if uc.cacheGet(ctx, "stats:overview", &o) {
		return &o, nil
	}

	overview, err := uc.Stats.Overview(ctx, uc.Timezone)
	if err != nil {
		return nil, err
	}
	uc.cacheSet(ctx, "stats:overview", overview)
	return overview, nil
}

func (uc *LeadStatsUseCase) StatusCounts(ctx context.Context) (map[string]int, error) {
	return uc.Stats.StatusCounts(ctx)
}

func (uc *LeadStatsUseCase) SourcePerformance(ctx context.Context) ([]*entity.SourcePerformance, error) {
	return uc.Stats.SourcePerformance(ctx)
}

// DailyTrend returns the sparse per-day creation counts for the trailing
// window. Days defaults to 30.
func (uc *LeadStatsUseCase) DailyTrend(ctx context.Context, days int) ([]*entity.TrendPoint, error) {
	if days <= 0 {
		days = 30
	}

	key := fmt.Sprintf("stats:trend:%d", days)
	var cached []*entity.TrendPoint
	if uc.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	trend, err := uc.Stats.DailyTrend(ctx, days)
	if err != nil {
		return nil, err
	}
	uc.cacheSet(ctx, key, trend)
	return trend, nil
}

func (uc *LeadStatsUseCase) cacheGet(ctx context.Context, key string, dest any) bool {
	if uc.Cache == nil {
		return false
	}
	hit, err := uc.Cache.Get(ctx, key, dest)
	if err != nil {
		uc.Logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (uc *LeadStatsUseCase) cacheSet(ctx context.Context, key string, value any) {
	if uc.Cache == nil {
		return
	}
	if err := uc.Cache.Set(ctx, key, value); err != nil {
		uc.Logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
