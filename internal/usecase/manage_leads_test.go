package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
)

func newManageUseCase(repo *MockLeadRepository, audit *MockAuditRecorder, notifier LeadNotifier) *ManageLeadsUseCase {
	return NewManageLeadsUseCase(repo, audit, notifier, zap.NewNop())
}

func TestCreateLead_Success(t *testing.T) {
	repo := new(MockLeadRepository)
	audit := new(MockAuditRecorder)
	uc := newManageUseCase(repo, audit, nil)

	input := CreateLeadInput{Name: "Alice Santos", Email: "alice@example.com", Company: "Acme"}
	created := &entity.Lead{ID: 42, Name: "Alice Santos", Email: "alice@example.com", Status: entity.StatusNew}

	repo.On("EmailExists", mock.Anything, "alice@example.com", int64(0)).Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(int64(42), nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(created, nil)
	audit.On("Record", mock.Anything, (*int64)(nil), "lead_created", "New lead created: Alice Santos").Return()

	lead, err := uc.Create(context.Background(), input, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), lead.ID)
	repo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestCreateLead_DuplicateEmail(t *testing.T) {
	repo := new(MockLeadRepository)
	audit := new(MockAuditRecorder)
	uc := newManageUseCase(repo, audit, nil)

	repo.On("EmailExists", mock.Anything, "alice@example.com", int64(0)).Return(true, nil)

	lead, err := uc.Create(context.Background(), CreateLeadInput{Name: "Alice", Email: "alice@example.com"}, nil)

	assert.Nil(t, lead)
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateLead_InvalidInput(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := newManageUseCase(repo, new(MockAuditRecorder), nil)

	_, err := uc.Create(context.Background(), CreateLeadInput{Name: "Alice"}, nil)
	assert.True(t, entity.IsValidationError(err))

	_, err = uc.Create(context.Background(), CreateLeadInput{Name: "Alice", Email: "broken"}, nil)
	assert.True(t, entity.IsValidationError(err))

	repo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateLead_NotifierFailureDoesNotAbort(t *testing.T) {
	repo := new(MockLeadRepository)
	audit := new(MockAuditRecorder)
	notifier := new(MockLeadNotifier)
	uc := newManageUseCase(repo, audit, notifier)

	created := &entity.Lead{ID: 7, Name: "Bob", Email: "bob@example.com"}
	repo.On("EmailExists", mock.Anything, "bob@example.com", int64(0)).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(created, nil)
	audit.On("Record", mock.Anything, mock.Anything, "lead_created", mock.Anything).Return()
	notifier.On("NotifyNewLead", created).Return(errors.New("smtp timeout"))

	lead, err := uc.Create(context.Background(), CreateLeadInput{Name: "Bob", Email: "bob@example.com"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), lead.ID)
	notifier.AssertExpectations(t)
}

func TestUpdateLead_EmailChecksOtherRows(t *testing.T) {
	repo := new(MockLeadRepository)
	audit := new(MockAuditRecorder)
	uc := newManageUseCase(repo, audit, nil)

	email := "new@example.com"
	upd := entity.LeadUpdate{Email: &email}
	updated := &entity.Lead{ID: 5, Name: "Carol", Email: email}

	repo.On("EmailExists", mock.Anything, email, int64(5)).Return(false, nil)
	repo.On("Update", mock.Anything, int64(5), upd).Return(updated, nil)
	audit.On("Record", mock.Anything, mock.Anything, "lead_updated", "Lead updated: ID 5").Return()

	lead, err := uc.Update(context.Background(), 5, upd, nil)

	assert.NoError(t, err)
	assert.Equal(t, email, lead.Email)
	repo.AssertExpectations(t)
}

func TestUpdateLead_EmailTakenByAnotherLead(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := newManageUseCase(repo, new(MockAuditRecorder), nil)

	email := "taken@example.com"
	repo.On("EmailExists", mock.Anything, email, int64(5)).Return(true, nil)

	_, err := uc.Update(context.Background(), 5, entity.LeadUpdate{Email: &email}, nil)

	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLead_RejectsUnknownStatus(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := newManageUseCase(repo, new(MockAuditRecorder), nil)

	status := "archived"
	_, err := uc.Update(context.Background(), 5, entity.LeadUpdate{Status: &status}, nil)

	assert.True(t, entity.IsValidationError(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLead_NotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := newManageUseCase(repo, new(MockAuditRecorder), nil)

	name := "Ghost"
	repo.On("Update", mock.Anything, int64(404), mock.Anything).Return(nil, entity.ErrNotFound)

	_, err := uc.Update(context.Background(), 404, entity.LeadUpdate{Name: &name}, nil)

	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDeleteLead_Success(t *testing.T) {
	repo := new(MockLeadRepository)
	audit := new(MockAuditRecorder)
	uc := newManageUseCase(repo, audit, nil)

	repo.On("GetByID", mock.Anything, int64(9)).Return(&entity.Lead{ID: 9, Name: "Dave"}, nil)
	repo.On("Delete", mock.Anything, int64(9)).Return(true, nil)
	audit.On("Record", mock.Anything, mock.Anything, "lead_deleted", "Lead deleted: Dave").Return()

	deleted, err := uc.Delete(context.Background(), 9, nil)

	assert.NoError(t, err)
	assert.True(t, deleted)
	audit.AssertExpectations(t)
}

func TestDeleteLead_MissingIsNotAnError(t *testing.T) {
	repo := new(MockLeadRepository)
	audit := new(MockAuditRecorder)
	uc := newManageUseCase(repo, audit, nil)

	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, entity.ErrNotFound)

	deleted, err := uc.Delete(context.Background(), 9, nil)

	assert.NoError(t, err)
	assert.False(t, deleted)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkDelete_ReturnsActualCount(t *testing.T) {
	repo := new(MockLeadRepository)
	audit := new(MockAuditRecorder)
	uc := newManageUseCase(repo, audit, nil)

	// 3 requested ids, only 2 rows actually exist.
	ids := []int64{1, 2, 999}
	repo.On("BulkDelete", mock.Anything, ids).Return(int64(2), nil)
	audit.On("Record", mock.Anything, mock.Anything, "leads_bulk_deleted", "Deleted 2 leads").Return()

	removed, err := uc.BulkDelete(context.Background(), ids, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	audit.AssertExpectations(t)
}

func TestBulkDelete_EmptySet(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := newManageUseCase(repo, new(MockAuditRecorder), nil)

	_, err := uc.BulkDelete(context.Background(), nil, nil)

	assert.True(t, entity.IsValidationError(err))
	repo.AssertNotCalled(t, "BulkDelete", mock.Anything, mock.Anything)
}
