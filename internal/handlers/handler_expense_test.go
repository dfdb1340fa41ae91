package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/trackmint/expense_tracker_app/internal/apperrors"
	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	"github.com/trackmint/expense_tracker_app/internal/dto"
	"github.com/trackmint/expense_tracker_app/internal/middleware"
	"github.com/trackmint/expense_tracker_app/internal/utils"
)

const testJWTSecret = "test-secret-for-handlers"

// --- Mock ExpenseSvcFacade ---
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, principal domain.Principal, req dto.ExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) ListExpenses(ctx context.Context, principal domain.Principal, limit int, offset int) ([]domain.Expense, int64, error) {
	args := m.Called(ctx, principal, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseService) GetExpenseByID(ctx context.Context, principal domain.Principal, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, principal, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) UpdateExpense(ctx context.Context, principal domain.Principal, expenseID string, req dto.ExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, principal, expenseID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) DeleteExpense(ctx context.Context, principal domain.Principal, expenseID string) error {
	args := m.Called(ctx, principal, expenseID)
	return args.Error(0)
}

// --- Test Suite ---
type ExpenseHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockExpenseService
	userID      string
	accessToken string
}

func (suite *ExpenseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockExpenseService)
	suite.userID = uuid.NewString()

	token, err := utils.GenerateAccessJWT(suite.userID, "alice", false, testJWTSecret, time.Minute, "test")
	suite.Require().NoError(err)
	suite.accessToken = token

	suite.router = gin.New()
	protected := suite.router.Group("", middleware.AuthMiddleware(testJWTSecret))
	registerExpenseRoutes(protected, suite.mockService, 10, 100)
}

func (suite *ExpenseHandlerTestSuite) performRequest(method, path string, body []byte, authenticated bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+suite.accessToken)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ExpenseHandlerTestSuite) sampleExpense() *domain.Expense {
	now := time.Now()
	return &domain.Expense{
		ExpenseID:       uuid.NewString(),
		UserID:          suite.userID,
		OwnerUsername:   "alice",
		Title:           "Groceries",
		Description:     "Weekly shop",
		Amount:          decimal.NewFromInt(100),
		TransactionType: domain.Debit,
		Tax:             decimal.NewFromInt(10),
		TaxType:         domain.TaxFlat,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":            "Groceries",
		"description":      "Weekly shop",
		"amount":           "100",
		"transaction_type": "debit",
		"tax":              "10",
		"tax_type":         "flat",
	}
}

// --- Auth gating ---

func (suite *ExpenseHandlerTestSuite) TestRequestsWithoutTokenAreRejected() {
	w := suite.performRequest(http.MethodGet, "/expenses", nil, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListExpenses", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestExpiredTokenIsRejected() {
	expired, err := utils.GenerateAccessJWT(suite.userID, "alice", false, testJWTSecret, -time.Minute, "test")
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Token has expired")
}

// --- Create ---

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_Success() {
	expense := suite.sampleExpense()
	suite.mockService.On("CreateExpense", mock.Anything, mock.MatchedBy(func(p domain.Principal) bool {
		return p.UserID == suite.userID && p.Username == "alice" && !p.IsSuperuser
	}), mock.AnythingOfType("dto.ExpenseRequest")).Return(expense, nil).Once()

	body, _ := json.Marshal(validPayload())
	w := suite.performRequest(http.MethodPost, "/expenses", body, true)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expense.ExpenseID, resp.ID)
	suite.Equal("alice", resp.User)
	suite.Equal("110", resp.TotalAmount.String())
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_MissingRequiredField() {
	payload := validPayload()
	delete(payload, "title")
	body, _ := json.Marshal(payload)

	w := suite.performRequest(http.MethodPost, "/expenses", body, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_UnknownTransactionType() {
	payload := validPayload()
	payload["transaction_type"] = "transfer"
	body, _ := json.Marshal(payload)

	w := suite.performRequest(http.MethodPost, "/expenses", body, true)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_ValidationErrorFromService() {
	suite.mockService.On("CreateExpense", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("amount", "Amount must be greater than zero.")).Once()

	body, _ := json.Marshal(validPayload())
	w := suite.performRequest(http.MethodPost, "/expenses", body, true)

	suite.Equal(http.StatusBadRequest, w.Code)

	var resp map[string]map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp["errors"], "amount")
}

// --- List ---

func (suite *ExpenseHandlerTestSuite) TestListExpenses_Envelope() {
	first := suite.sampleExpense()
	second := suite.sampleExpense()
	suite.mockService.On("ListExpenses", mock.Anything, mock.Anything, 10, 0).
		Return([]domain.Expense{*first, *second}, int64(25), nil).Once()

	w := suite.performRequest(http.MethodGet, "/expenses", nil, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(25), resp.Count)
	suite.Len(resp.Results, 2)
	suite.Require().NotNil(resp.Next)
	suite.Contains(*resp.Next, "page=2")
	suite.Nil(resp.Previous)
}

func (suite *ExpenseHandlerTestSuite) TestListExpenses_PageSizeIsClamped() {
	suite.mockService.On("ListExpenses", mock.Anything, mock.Anything, 100, 0).
		Return([]domain.Expense{}, int64(0), nil).Once()

	w := suite.performRequest(http.MethodGet, "/expenses?page_size=5000", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestListExpenses_SecondPageOffset() {
	suite.mockService.On("ListExpenses", mock.Anything, mock.Anything, 10, 10).
		Return([]domain.Expense{}, int64(25), nil).Once()

	w := suite.performRequest(http.MethodGet, "/expenses?page=2", nil, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.Previous)
	suite.Require().NotNil(resp.Next)
	suite.mockService.AssertExpectations(suite.T())
}

// --- Get ---

func (suite *ExpenseHandlerTestSuite) TestGetExpense_Success() {
	expense := suite.sampleExpense()
	suite.mockService.On("GetExpenseByID", mock.Anything, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()

	w := suite.performRequest(http.MethodGet, "/expenses/"+expense.ExpenseID, nil, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expense.ExpenseID, resp.ID)
	suite.Equal("Weekly shop", resp.Description)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_MalformedIDIs404() {
	w := suite.performRequest(http.MethodGet, "/expenses/not-a-uuid", nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Not found")
	suite.mockService.AssertNotCalled(suite.T(), "GetExpenseByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_InvisibleRecordIs404() {
	expenseID := uuid.NewString()
	suite.mockService.On("GetExpenseByID", mock.Anything, mock.Anything, expenseID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodGet, "/expenses/"+expenseID, nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Not found")
}

// --- Update ---

func (suite *ExpenseHandlerTestSuite) TestUpdateExpense_Success() {
	expense := suite.sampleExpense()
	expense.Title = "Groceries plus"
	suite.mockService.On("UpdateExpense", mock.Anything, mock.Anything, expense.ExpenseID, mock.AnythingOfType("dto.ExpenseRequest")).
		Return(expense, nil).Once()

	payload := validPayload()
	payload["title"] = "Groceries plus"
	body, _ := json.Marshal(payload)

	w := suite.performRequest(http.MethodPut, "/expenses/"+expense.ExpenseID, body, true)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Groceries plus", resp.Title)
}

func (suite *ExpenseHandlerTestSuite) TestUpdateExpense_NotFound() {
	expenseID := uuid.NewString()
	suite.mockService.On("UpdateExpense", mock.Anything, mock.Anything, expenseID, mock.AnythingOfType("dto.ExpenseRequest")).
		Return(nil, apperrors.ErrNotFound).Once()

	body, _ := json.Marshal(validPayload())
	w := suite.performRequest(http.MethodPut, "/expenses/"+expenseID, body, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Delete ---

func (suite *ExpenseHandlerTestSuite) TestDeleteExpense_Success() {
	expenseID := uuid.NewString()
	suite.mockService.On("DeleteExpense", mock.Anything, mock.Anything, expenseID).Return(nil).Once()

	w := suite.performRequest(http.MethodDelete, "/expenses/"+expenseID, nil, true)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.String())
}

func (suite *ExpenseHandlerTestSuite) TestUpdateExpense_MalformedIDIs404() {
	body, _ := json.Marshal(validPayload())
	w := suite.performRequest(http.MethodPut, "/expenses/42", body, true)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "UpdateExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestDeleteExpense_MalformedIDIs404() {
	w := suite.performRequest(http.MethodDelete, "/expenses/not-a-uuid", nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseHandlerTestSuite) TestDeleteExpense_NotFound() {
	expenseID := uuid.NewString()
	suite.mockService.On("DeleteExpense", mock.Anything, mock.Anything, expenseID).
		Return(apperrors.ErrNotFound).Once()

	w := suite.performRequest(http.MethodDelete, "/expenses/"+expenseID, nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestExpenseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerTestSuite))
}
