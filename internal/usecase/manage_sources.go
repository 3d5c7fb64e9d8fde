package usecase

import (
	"context"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

// CreateSourceInput mirrors the source creation form; only the name is
// mandatory, type defaults to inbound and icon/color to the dashboard
// defaults.
type CreateSourceInput struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type ManageSourcesUseCase struct {
	Repo SourceRepositoryInterface
}

func NewManageSourcesUseCase(repo SourceRepositoryInterface) *ManageSourcesUseCase {
	return &ManageSourcesUseCase{Repo: repo}
}

func (uc *ManageSourcesUseCase) List(ctx context.Context, activeOnly bool) ([]*entity.LeadSource, error) {
	return uc.Repo.List(ctx, activeOnly)
}

func (uc *ManageSourcesUseCase) Get(ctx context.Context, id int64) (*entity.LeadSource, error) {
	return uc.Repo.GetByID(ctx, id)
}

func (uc *ManageSourcesUseCase) Create(ctx context.Context, in CreateSourceInput) (*entity.LeadSource, error) {
	source := &entity.LeadSource{
		Name:        in.Name,
		Type:        in.Type,
		Icon:        in.Icon,
		Color:       in.Color,
		Description: in.Description,
		IsActive:    true,
	}
	if in.IsActive != nil {
		source.IsActive = *in.IsActive
	}
	source.ApplyDefaults()

	if err := source.Validate(); err != nil {
		return nil, err
	}

	id, err := uc.Repo.Create(ctx, source)
	if err != nil {
		return nil, err
	}
	return uc.Repo.GetByID(ctx, id)
}

func (uc *ManageSourcesUseCase) Update(ctx context.Context, id int64, upd entity.LeadSourceUpdate) (*entity.LeadSource, error) {
	if upd.Type != nil && *upd.Type != entity.SourceTypeInbound && *upd.Type != entity.SourceTypeOutbound {
		return nil, entity.ValidationError{Field: "type", Message: "must be inbound or outbound"}
	}
	return uc.Repo.Update(ctx, id, upd)
}

// Delete removes the source, or deactivates it when leads still reference
// it (the repository decides which).
func (uc *ManageSourcesUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.Repo.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.Repo.Delete(ctx, id)
}
