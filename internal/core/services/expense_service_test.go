package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/trackmint/expense_tracker_app/internal/apperrors"
	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	portssvc "github.com/trackmint/expense_tracker_app/internal/core/ports/services"
	"github.com/trackmint/expense_tracker_app/internal/core/services"
	"github.com/trackmint/expense_tracker_app/internal/dto"
)

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindExpenses(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Expense, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountExpenses(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	args := m.Called(ctx, expenseID)
	return args.Error(0)
}

// --- Test Suite ---
type ExpenseServiceTestSuite struct {
	suite.Suite
	mockRepo *MockExpenseRepository
	service  portssvc.ExpenseSvcFacade

	owner     domain.Principal
	stranger  domain.Principal
	superuser domain.Principal
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockExpenseRepository)
	suite.service = services.NewExpenseService(suite.mockRepo)

	suite.owner = domain.Principal{UserID: uuid.NewString(), Username: "owner"}
	suite.stranger = domain.Principal{UserID: uuid.NewString(), Username: "stranger"}
	suite.superuser = domain.Principal{UserID: uuid.NewString(), Username: "admin", IsSuperuser: true}
}

func (suite *ExpenseServiceTestSuite) validRequest() dto.ExpenseRequest {
	return dto.ExpenseRequest{
		Title:           "Lunch",
		Description:     "Burger",
		Amount:          decimal.NewFromInt(100),
		TransactionType: "debit",
		Tax:             decimal.NewFromInt(10),
		TaxType:         "flat",
	}
}

func (suite *ExpenseServiceTestSuite) ownedExpense() *domain.Expense {
	return &domain.Expense{
		ExpenseID:       uuid.NewString(),
		UserID:          suite.owner.UserID,
		OwnerUsername:   suite.owner.Username,
		Title:           "Lunch",
		Amount:          decimal.NewFromInt(100),
		TransactionType: domain.Debit,
		Tax:             decimal.NewFromInt(10),
		TaxType:         domain.TaxFlat,
	}
}

// --- CreateExpense ---

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Success() {
	ctx := context.Background()
	req := suite.validRequest()

	suite.mockRepo.On("SaveExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.UserID == suite.owner.UserID && e.Title == req.Title
	})).Return(nil).Once()

	created, err := suite.service.CreateExpense(ctx, suite.owner, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(suite.owner.UserID, created.UserID)
	suite.NotEmpty(created.ExpenseID)
	suite.True(created.TotalAmount().Equal(decimal.NewFromInt(110)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_OwnershipForcedToCaller() {
	ctx := context.Background()

	suite.mockRepo.On("SaveExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.UserID == suite.owner.UserID
	})).Return(nil).Once()

	created, err := suite.service.CreateExpense(ctx, suite.owner, suite.validRequest())

	suite.Require().NoError(err)
	suite.Equal(suite.owner.UserID, created.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_RejectsNonPositiveAmount() {
	ctx := context.Background()
	req := suite.validRequest()
	req.Amount = decimal.NewFromInt(-10)

	_, err := suite.service.CreateExpense(ctx, suite.owner, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_RejectsNegativeTax() {
	ctx := context.Background()
	req := suite.validRequest()
	req.Tax = decimal.NewFromInt(-5)

	_, err := suite.service.CreateExpense(ctx, suite.owner, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ListExpenses ---

func (suite *ExpenseServiceTestSuite) TestListExpenses_ScopedToOwner() {
	ctx := context.Background()
	expected := []domain.Expense{*suite.ownedExpense()}

	suite.mockRepo.On("FindExpenses", ctx, suite.owner.UserID, 10, 0).Return(expected, nil).Once()
	suite.mockRepo.On("CountExpenses", ctx, suite.owner.UserID).Return(int64(1), nil).Once()

	expenses, count, err := suite.service.ListExpenses(ctx, suite.owner, 10, 0)

	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.Len(expenses, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestListExpenses_SuperuserUnscoped() {
	ctx := context.Background()

	// Empty owner filter means records from every owner
	suite.mockRepo.On("FindExpenses", ctx, "", 10, 0).Return([]domain.Expense{}, nil).Once()
	suite.mockRepo.On("CountExpenses", ctx, "").Return(int64(0), nil).Once()

	_, _, err := suite.service.ListExpenses(ctx, suite.superuser, 10, 0)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- GetExpenseByID ---

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_Owner() {
	ctx := context.Background()
	expense := suite.ownedExpense()

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	got, err := suite.service.GetExpenseByID(ctx, suite.owner, expense.ExpenseID)

	suite.Require().NoError(err)
	suite.Equal(expense, got)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_StrangerSeesNotFound() {
	ctx := context.Background()
	expense := suite.ownedExpense()

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	got, err := suite.service.GetExpenseByID(ctx, suite.stranger, expense.ExpenseID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_SuperuserSeesAny() {
	ctx := context.Background()
	expense := suite.ownedExpense()

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	got, err := suite.service.GetExpenseByID(ctx, suite.superuser, expense.ExpenseID)

	suite.Require().NoError(err)
	suite.Equal(expense, got)
}

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_Missing() {
	ctx := context.Background()
	expenseID := uuid.NewString()

	suite.mockRepo.On("FindExpenseByID", ctx, expenseID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetExpenseByID(ctx, suite.owner, expenseID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- UpdateExpense ---

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_ReplacesFieldsAndKeepsOwner() {
	ctx := context.Background()
	expense := suite.ownedExpense()

	req := dto.ExpenseRequest{
		Title:           "Updated Expense",
		Description:     "Updated desc",
		Amount:          decimal.NewFromInt(120),
		TransactionType: "debit",
		Tax:             decimal.NewFromInt(12),
		TaxType:         "flat",
	}

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.mockRepo.On("UpdateExpense", ctx, mock.MatchedBy(func(e domain.Expense) bool {
		return e.ExpenseID == expense.ExpenseID && e.UserID == suite.owner.UserID && e.Title == "Updated Expense"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateExpense(ctx, suite.owner, expense.ExpenseID, req)

	suite.Require().NoError(err)
	suite.Equal(suite.owner.UserID, updated.UserID)
	suite.True(updated.TotalAmount().Equal(decimal.NewFromInt(132)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_StrangerSeesNotFound() {
	ctx := context.Background()
	expense := suite.ownedExpense()

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	_, err := suite.service.UpdateExpense(ctx, suite.stranger, expense.ExpenseID, suite.validRequest())

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestUpdateExpense_RevalidatesAmount() {
	ctx := context.Background()
	expense := suite.ownedExpense()
	req := suite.validRequest()
	req.Amount = decimal.Zero

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	_, err := suite.service.UpdateExpense(ctx, suite.owner, expense.ExpenseID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything)
}

// --- DeleteExpense ---

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_Owner() {
	ctx := context.Background()
	expense := suite.ownedExpense()

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.mockRepo.On("DeleteExpense", ctx, expense.ExpenseID).Return(nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.owner, expense.ExpenseID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_StrangerSeesNotFound() {
	ctx := context.Background()
	expense := suite.ownedExpense()

	suite.mockRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.stranger, expense.ExpenseID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_AlreadyGone() {
	ctx := context.Background()
	expenseID := uuid.NewString()

	suite.mockRepo.On("FindExpenseByID", ctx, expenseID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteExpense(ctx, suite.owner, expenseID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
