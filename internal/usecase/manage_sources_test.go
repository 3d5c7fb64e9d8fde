package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

func TestCreateSource_AppliesDefaults(t *testing.T) {
	repo := new(MockSourceRepository)
	uc := NewManageSourcesUseCase(repo)

	created := &entity.LeadSource{ID: 3, Name: "Webinar", Type: entity.SourceTypeInbound, IsActive: true}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.LeadSource) bool {
		return s.Type == entity.SourceTypeInbound &&
			s.Icon == entity.DefaultSourceIcon &&
			s.Color == entity.DefaultSourceColor &&
			s.IsActive
	})).Return(int64(3), nil)
	repo.On("GetByID", mock.Anything, int64(3)).Return(created, nil)

	source, err := uc.Create(context.Background(), CreateSourceInput{Name: "Webinar"})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), source.ID)
	repo.AssertExpectations(t)
}

func TestCreateSource_RequiresName(t *testing.T) {
	repo := new(MockSourceRepository)
	uc := NewManageSourcesUseCase(repo)

	_, err := uc.Create(context.Background(), CreateSourceInput{})

	assert.True(t, entity.IsValidationError(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateSource_RejectsUnknownType(t *testing.T) {
	repo := new(MockSourceRepository)
	uc := NewManageSourcesUseCase(repo)

	badType := "sideways"
	_, err := uc.Update(context.Background(), 1, entity.LeadSourceUpdate{Type: &badType})

	assert.True(t, entity.IsValidationError(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteSource_MissingID(t *testing.T) {
	repo := new(MockSourceRepository)
	uc := NewManageSourcesUseCase(repo)

	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, entity.ErrNotFound)

	err := uc.Delete(context.Background(), 404)

	assert.ErrorIs(t, err, entity.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
