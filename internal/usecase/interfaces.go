package usecase

import (
	"context"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

type LeadRepositoryInterface interface {
	List(ctx context.Context, f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error)
	GetByID(ctx context.Context, id int64) (*entity.Lead, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, lead *entity.Lead) (int64, error)
	Update(ctx context.Context, id int64, upd entity.LeadUpdate) (*entity.Lead, error)
	Delete(ctx context.Context, id int64) (bool, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	Recent(ctx context.Context, limit int) ([]*entity.Lead, error)

	// InTx runs fn inside one store transaction; the whole unit commits or
	// rolls back together.
	InTx(ctx context.Context, fn func(entity.LeadWriter) error) error
}

type StatsRepositoryInterface interface {
	Overview(ctx context.Context, timezone string) (*entity.Overview, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
	SourcePerformance(ctx context.Context) ([]*entity.SourcePerformance, error)
	DailyTrend(ctx context.Context, days int) ([]*entity.TrendPoint, error)
}

type SourceRepositoryInterface interface {
	List(ctx context.Context, activeOnly bool) ([]*entity.LeadSource, error)
	GetByID(ctx context.Context, id int64) (*entity.LeadSource, error)
	Create(ctx context.Context, s *entity.LeadSource) (int64, error)
	Update(ctx context.Context, id int64, upd entity.LeadSourceUpdate) (*entity.LeadSource, error)
	Delete(ctx context.Context, id int64) error
}

// AuditRecorder is the fire-and-forget audit sink. Implementations swallow
// their own failures; a broken sink must never abort a lead operation.
type AuditRecorder interface {
	Record(ctx context.Context, actorID *int64, action, details string)
}

// LeadNotifier alerts an operator about a freshly captured lead.
// Best-effort: errors are logged by the caller and otherwise ignored.
type LeadNotifier interface {
	NotifyNewLead(lead *entity.Lead) error
}

// StatsCache is an optional TTL cache in front of the aggregate queries.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
