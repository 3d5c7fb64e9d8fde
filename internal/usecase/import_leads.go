package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// ImportResult is the only outcome signal of a batch: no per-row reporting
// beyond the two tallies.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportLeadsUseCase ingests a batch of candidates as one atomic unit.
// Duplicates are skipped, anything else that fails rolls the whole batch
// back to its pre-call state.
type ImportLeadsUseCase struct {
	Repo   LeadRepositoryInterface
	Audit  AuditRecorder
	Logger *zap.Logger
}

func NewImportLeadsUseCase(repo LeadRepositoryInterface, audit AuditRecorder, logger *zap.Logger) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{Repo: repo, Audit: audit, Logger: logger}
}

// Execute processes the candidates in input order inside one transaction.
// The duplicate check runs against the live transactional state, so a batch
// carrying the same new email twice imports the first and skips the second.
func (uc *ImportLeadsUseCase) Execute(ctx context.Context, candidates []CreateLeadInput, sourceLabel string, actorID *int64) (*ImportResult, error) {
	if len(candidates) == 0 {
		return nil, entity.ValidationError{Field: "leads", Message: "no leads data provided"}
	}
	if sourceLabel == "" {
		sourceLabel = "Import"
	}

	var result ImportResult

	err := uc.Repo.InTx(ctx, func(tx entity.LeadWriter) error {
		for i, candidate := range candidates {
			lead := candidate.toLead(actorID)
			lead.Source = sourceLabel

			if err := lead.Validate(); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}

			exists, err := tx.EmailExists(ctx, lead.Email, 0)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			if _, err := tx.Create(ctx, lead); err != nil {
				// A concurrent writer can still win the unique index
				// between our check and the insert; that is a duplicate,
				// not a batch failure.
				if errors.Is(err, entity.ErrEmailAlreadyExists) {
					result.Skipped++
					continue
				}
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("bulk import finished",
		zap.String("source", sourceLabel),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	uc.Audit.Record(ctx, actorID, "leads_imported",
		fmt.Sprintf("Imported %d leads, skipped %d duplicates", result.Imported, result.Skipped))

	return &result, nil
}
