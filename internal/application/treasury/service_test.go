package treasury

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindAll(ctx context.Context) ([]*ledger.PaymentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, record *ledger.PaymentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, record *ledger.PaymentRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func record(t *testing.T, entered string, includesVAT bool, paymentType ledger.PaymentType) *ledger.PaymentRecord {
	t.Helper()
	r, err := ledger.NewPaymentRecord(
		"Counterparty",
		decimal.RequireFromString(entered),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		includesVAT,
		paymentType,
	)
	require.NoError(t, err)
	return r
}

func TestStats_BalanceAndCounts(t *testing.T) {
	// One inclusive income of 1000.00 total, one inclusive expense of 400.00
	// total, expense settled.
	income := record(t, "1000", true, ledger.PaymentTypeIncome)
	expense := record(t, "400", true, ledger.PaymentTypeExpense)
	require.NoError(t, expense.Settle(decimal.NewFromInt(410), time.Now(), ""))

	repo := new(MockPaymentRepository)
	repo.On("FindAll", mock.Anything).Return([]*ledger.PaymentRecord{income, expense}, nil)
	service := NewService(repo)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "600.00", stats.TotalBalance)
	assert.Equal(t, "1000.00", stats.TotalIncome)
	assert.Equal(t, "400.00", stats.TotalExpenses)
	assert.Equal(t, 2, stats.PaymentsCount)
	assert.Equal(t, 1, stats.SettledCount)
	assert.Equal(t, 1, stats.PendingCount)

	// VAT sums both types: 122.81 extracted from the income plus 49.12 from
	// the expense.
	assert.Equal(t, "171.93", stats.TotalVAT)
}

func TestStats_EmptyLedger(t *testing.T) {
	repo := new(MockPaymentRepository)
	repo.On("FindAll", mock.Anything).Return([]*ledger.PaymentRecord{}, nil)
	service := NewService(repo)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0.00", stats.TotalBalance)
	assert.Equal(t, "0.00", stats.TotalVAT)
	assert.Equal(t, 0, stats.PaymentsCount)
	assert.Equal(t, 0, stats.SettledCount)
	assert.Equal(t, 0, stats.PendingCount)
}

func TestStats_MissingVATCountsAsZero(t *testing.T) {
	zero := record(t, "0", false, ledger.PaymentTypeExpense)
	taxed := record(t, "100", false, ledger.PaymentTypeExpense)

	repo := new(MockPaymentRepository)
	repo.On("FindAll", mock.Anything).Return([]*ledger.PaymentRecord{zero, taxed}, nil)
	service := NewService(repo)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "14.00", stats.TotalVAT)
	assert.Equal(t, "114.00", stats.TotalExpenses)
}

func TestCategoryBreakdown(t *testing.T) {
	supplier := record(t, "100", false, ledger.PaymentTypeExpense) // total 114.00
	require.NoError(t, supplier.SetExpenseCategory(ledger.ExpenseCategorySupplier))
	rent := record(t, "50", false, ledger.PaymentTypeExpense) // total 57.00
	require.NoError(t, rent.SetExpenseCategory(ledger.ExpenseCategoryRent))
	supplier2 := record(t, "100", false, ledger.PaymentTypeExpense)
	require.NoError(t, supplier2.SetExpenseCategory(ledger.ExpenseCategorySupplier))
	income := record(t, "999", false, ledger.PaymentTypeIncome)

	repo := new(MockPaymentRepository)
	repo.On("FindAll", mock.Anything).Return([]*ledger.PaymentRecord{supplier, rent, supplier2, income}, nil)
	service := NewService(repo)

	breakdown, err := service.CategoryBreakdown(context.Background())
	require.NoError(t, err)

	require.Len(t, breakdown, 2)
	assert.Equal(t, "supplier", breakdown[0].Category)
	assert.Equal(t, "228.00", breakdown[0].TotalAmount)
	assert.Equal(t, "28.00", breakdown[0].VATAmount)
	assert.Equal(t, 2, breakdown[0].Count)
	assert.Equal(t, "80.00", breakdown[0].Percentage) // 228 / 285

	assert.Equal(t, "rent", breakdown[1].Category)
	assert.Equal(t, "57.00", breakdown[1].TotalAmount)
	assert.Equal(t, "20.00", breakdown[1].Percentage)
}

func TestCategoryBreakdown_UncategorizedFallsToMiscellaneous(t *testing.T) {
	expense := record(t, "100", false, ledger.PaymentTypeExpense)

	repo := new(MockPaymentRepository)
	repo.On("FindAll", mock.Anything).Return([]*ledger.PaymentRecord{expense}, nil)
	service := NewService(repo)

	breakdown, err := service.CategoryBreakdown(context.Background())
	require.NoError(t, err)

	require.Len(t, breakdown, 1)
	assert.Equal(t, "miscellaneous", breakdown[0].Category)
	assert.Equal(t, "100.00", breakdown[0].Percentage)
}

func TestCategoryBreakdown_ZeroExpenses(t *testing.T) {
	// All-zero expense totals must not divide by zero.
	expense := record(t, "0", false, ledger.PaymentTypeExpense)
	require.NoError(t, expense.SetExpenseCategory(ledger.ExpenseCategoryTransport))

	repo := new(MockPaymentRepository)
	repo.On("FindAll", mock.Anything).Return([]*ledger.PaymentRecord{expense}, nil)
	service := NewService(repo)

	breakdown, err := service.CategoryBreakdown(context.Background())
	require.NoError(t, err)

	require.Len(t, breakdown, 1)
	assert.Equal(t, "0.00", breakdown[0].Percentage)
}
