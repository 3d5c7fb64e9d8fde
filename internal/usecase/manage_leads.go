package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// CreateLeadInput is a candidate lead as it arrives from the API boundary
// or from an import file. Name and email are mandatory, everything else is
// optional and defaulted by the repository.
type CreateLeadInput struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone,omitempty"`
	Company    string            `json:"company,omitempty"`
	Website    string            `json:"website,omitempty"`
	Address    string            `json:"address,omitempty"`
	City       string            `json:"city,omitempty"`
	State      string            `json:"state,omitempty"`
	Country    string            `json:"country,omitempty"`
	PostalCode string            `json:"postal_code,omitempty"`
	SourceID   *int64            `json:"source_id,omitempty"`
	Source     string            `json:"source,omitempty"`
	Status     string            `json:"status,omitempty"`
	Score      int               `json:"score,omitempty"`
	IsVerified bool              `json:"is_verified,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Custom     map[string]string `json:"custom_fields,omitempty"`
	AssignedTo *int64            `json:"assigned_to,omitempty"`
}

func (in CreateLeadInput) toLead(createdBy *int64) *entity.Lead {
	return &entity.Lead{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Company:    in.Company,
		Website:    in.Website,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		SourceID:   in.SourceID,
		Source:     in.Source,
		Status:     in.Status,
		Score:      in.Score,
		IsVerified: in.IsVerified,
		Tags:       in.Tags,
		Notes:      in.Notes,
		Custom:     in.Custom,
		AssignedTo: in.AssignedTo,
		CreatedBy:  createdBy,
	}
}

// ManageLeadsUseCase owns the query and single-record mutation contract:
// all precondition checks (shape, uniqueness) happen here, so the engine is
// testable without any request-handling layer above it.
type ManageLeadsUseCase struct {
	Repo     LeadRepositoryInterface
	Audit    AuditRecorder
	Notifier LeadNotifier // nil when notifications are not configured
	Logger   *zap.Logger
}

func NewManageLeadsUseCase(repo LeadRepositoryInterface, audit AuditRecorder, notifier LeadNotifier, logger *zap.Logger) *ManageLeadsUseCase {
	return &ManageLeadsUseCase{Repo: repo, Audit: audit, Notifier: notifier, Logger: logger}
}

func (uc *ManageLeadsUseCase) List(ctx context.Context, f entity.LeadFilters, page, perPage int) (*entity.LeadPage, error) {
	return uc.Repo.List(ctx, f, page, perPage)
}

func (uc *ManageLeadsUseCase) Get(ctx context.Context, id int64) (*entity.Lead, error) {
	return uc.Repo.GetByID(ctx, id)
}

func (uc *ManageLeadsUseCase) Recent(ctx context.Context, limit int) ([]*entity.Lead, error) {
	return uc.Repo.Recent(ctx, limit)
}

// Create validates the candidate, guards email uniqueness and persists.
// The store's unique index stays authoritative; the EmailExists pre-check
// only buys a better error without burning an insert.
func (uc *ManageLeadsUseCase) Create(ctx context.Context, in CreateLeadInput, actorID *int64) (*entity.Lead, error) {
	lead := in.toLead(actorID)
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	exists, err := uc.Repo.EmailExists(ctx, lead.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, entity.ErrEmailAlreadyExists
	}

	id, err := uc.Repo.Create(ctx, lead)
	if err != nil {
		return nil, err
	}

	created, err := uc.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.Audit.Record(ctx, actorID, "lead_created", fmt.Sprintf("New lead created: %s", created.Name))

	if uc.Notifier != nil {
		if err := uc.Notifier.NotifyNewLead(created); err != nil {
			uc.Logger.Warn("new lead notification failed", zap.Int64("lead_id", created.ID), zap.Error(err))
		}
	}

	return created, nil
}

// Update applies a partial edit. Email changes are checked against every
// other row; unknown fields never reach this layer.
func (uc *ManageLeadsUseCase) Update(ctx context.Context, id int64, upd entity.LeadUpdate, actorID *int64) (*entity.Lead, error) {
	if upd.Email != nil {
		if _, err := mail.ParseAddress(*upd.Email); err != nil {
			return nil, entity.ValidationError{Field: "email", Message: "is invalid"}
		}
		exists, err := uc.Repo.EmailExists(ctx, *upd.Email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, entity.ErrEmailAlreadyExists
		}
	}
	if upd.Status != nil && !entity.IsValidStatus(*upd.Status) {
		return nil, entity.ValidationError{Field: "status", Message: "is not a valid lead status"}
	}

	updated, err := uc.Repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	uc.Audit.Record(ctx, actorID, "lead_updated", fmt.Sprintf("Lead updated: ID %d", id))
	return updated, nil
}

// Delete removes the lead. Deleting something already gone is a benign
// idempotent case and comes back as false, not an error.
func (uc *ManageLeadsUseCase) Delete(ctx context.Context, id int64, actorID *int64) (bool, error) {
	lead, err := uc.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := uc.Repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		uc.Audit.Record(ctx, actorID, "lead_deleted", fmt.Sprintf("Lead deleted: %s", lead.Name))
	}
	return deleted, nil
}

// BulkDelete removes every existing id in the set; missing ids are silently
// ignored and the count of rows actually removed is returned.
func (uc *ManageLeadsUseCase) BulkDelete(ctx context.Context, ids []int64, actorID *int64) (int64, error) {
	if len(ids) == 0 {
		return 0, entity.ValidationError{Field: "ids", Message: "no IDs provided"}
	}

	removed, err := uc.Repo.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}

	uc.Audit.Record(ctx, actorID, "leads_bulk_deleted", fmt.Sprintf("Deleted %d leads", removed))
	return removed, nil
}
