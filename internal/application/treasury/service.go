package treasury

import (
	"context"

	"github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Service derives treasury statistics from the payment ledger
type Service struct {
	repo ledger.PaymentRepository
}

// NewService creates a new treasury Service
func NewService(repo ledger.PaymentRepository) *Service {
	return &Service{repo: repo}
}

// StatsResponse is the treasury summary over the whole ledger. Monetary
// values are fixed 2-decimal strings.
type StatsResponse struct {
	TotalBalance  string `json:"totalBalance"`
	TotalIncome   string `json:"totalIncome"`
	TotalExpenses string `json:"totalExpenses"`
	TotalVAT      string `json:"totalVAT"`
	PaymentsCount int    `json:"paymentsCount"`
	SettledCount  int    `json:"settledCount"`
	PendingCount  int    `json:"pendingCount"`
}

// CategoryStatsResponse sums expense records for one category
type CategoryStatsResponse struct {
	Category    string `json:"category"`
	TotalAmount string `json:"totalAmount"`
	VATAmount   string `json:"vatAmount"`
	Count       int    `json:"count"`
	Percentage  string `json:"percentage"`
}

// Stats aggregates the full record set in a single pass. Balance is income
// minus expenses over total amounts; VAT sums across both payment types.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var income, expenses, vat decimal.Decimal
	settled := 0
	for _, record := range records {
		switch record.PaymentType {
		case ledger.PaymentTypeIncome:
			income = income.Add(record.TotalAmount)
		case ledger.PaymentTypeExpense:
			expenses = expenses.Add(record.TotalAmount)
		}
		vat = vat.Add(record.VATOrZero())
		if record.IsSettled {
			settled++
		}
	}

	return &StatsResponse{
		TotalBalance:  income.Sub(expenses).StringFixed(2),
		TotalIncome:   income.StringFixed(2),
		TotalExpenses: expenses.StringFixed(2),
		TotalVAT:      vat.StringFixed(2),
		PaymentsCount: len(records),
		SettledCount:  settled,
		PendingCount:  len(records) - settled,
	}, nil
}

// CategoryBreakdown groups expense records by category, with each category's
// share of total expenses. Categories with no records are omitted.
func (s *Service) CategoryBreakdown(ctx context.Context) ([]*CategoryStatsResponse, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		total decimal.Decimal
		vat   decimal.Decimal
		count int
	}
	buckets := make(map[ledger.ExpenseCategory]*bucket)
	var totalExpenses decimal.Decimal

	for _, record := range records {
		if record.PaymentType != ledger.PaymentTypeExpense {
			continue
		}
		totalExpenses = totalExpenses.Add(record.TotalAmount)

		category := ledger.ExpenseCategoryMiscellaneous
		if record.ExpenseCategory != nil {
			category = *record.ExpenseCategory
		}
		b := buckets[category]
		if b == nil {
			b = &bucket{}
			buckets[category] = b
		}
		b.total = b.total.Add(record.TotalAmount)
		b.vat = b.vat.Add(record.VATOrZero())
		b.count++
	}

	hundred := decimal.NewFromInt(100)
	var result []*CategoryStatsResponse
	for _, category := range ledger.AllExpenseCategories() {
		b := buckets[category]
		if b == nil {
			continue
		}
		percentage := decimal.Zero
		if !totalExpenses.IsZero() {
			percentage = b.total.Div(totalExpenses).Mul(hundred).Round(2)
		}
		result = append(result, &CategoryStatsResponse{
			Category:    category.String(),
			TotalAmount: b.total.StringFixed(2),
			VATAmount:   b.vat.StringFixed(2),
			Count:       b.count,
			Percentage:  percentage.StringFixed(2),
		})
	}

	return result, nil
}
