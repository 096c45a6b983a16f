package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/service"
	"rcmbooks/mocks"
)

func validRegistrationInput() service.CreateRegistrationInput {
	return service.CreateRegistrationInput{
		GSTIN:         testRecipientGSTIN,
		LegalName:     "Acme Traders",
		AdminEmail:    "Admin@Acme.Test",
		AdminName:     "First Admin",
		AdminPassword: "correct horse",
	}
}

func TestRegistrationService_Create(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewRegistrationService(regRepo, userRepo)

	regRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Registration) bool {
		return r.GSTIN == testRecipientGSTIN && r.StateCode == "27" && r.IsActive
	})).Return(nil)

	var created *domain.User
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	reg, err := svc.Create(context.Background(), validRegistrationInput())
	require.NoError(t, err)
	assert.Equal(t, testRecipientGSTIN, reg.GSTIN)

	require.NotNil(t, created)
	assert.Equal(t, reg.ID, created.RegistrationID)
	assert.Equal(t, "admin@acme.test", created.Email)
	assert.Equal(t, domain.RoleAdmin, created.Role)
	assert.True(t, created.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse")))
}

func TestRegistrationService_Create_LowercaseGSTINNormalised(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewRegistrationService(regRepo, userRepo)

	regRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Registration")).Return(nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	input := validRegistrationInput()
	input.GSTIN = "  27aapfu0939f1zv "

	reg, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, testRecipientGSTIN, reg.GSTIN)
}

func TestRegistrationService_Create_InvalidGSTIN(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewRegistrationService(regRepo, userRepo)

	input := validRegistrationInput()
	input.GSTIN = "27AAPFU0939F" // truncated

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)
	regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Create_DuplicateGSTIN(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewRegistrationService(regRepo, userRepo)

	regRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Registration")).
		Return(domain.ErrDuplicateGSTIN)

	_, err := svc.Create(context.Background(), validRegistrationInput())
	assert.ErrorIs(t, err, domain.ErrDuplicateGSTIN)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Deactivate(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewRegistrationService(regRepo, userRepo)

	id := uuid.New()
	regRepo.On("GetByID", mock.Anything, id).
		Return(&domain.Registration{ID: id, GSTIN: testRecipientGSTIN, IsActive: true}, nil)
	regRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Registration) bool {
		return r.ID == id && !r.IsActive
	})).Return(nil)

	require.NoError(t, svc.Deactivate(context.Background(), id))
	regRepo.AssertExpectations(t)
}
