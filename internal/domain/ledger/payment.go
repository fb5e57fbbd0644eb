package ledger

import (
	"time"

	"github.com/qurtubah/treasury/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType represents the direction of a payment record
type PaymentType string

const (
	PaymentTypeExpense PaymentType = "expense"
	PaymentTypeIncome  PaymentType = "income"
)

// IsValid checks if the type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeExpense, PaymentTypeIncome:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// ExpenseCategory classifies expense payments
type ExpenseCategory string

const (
	ExpenseCategorySupplier       ExpenseCategory = "supplier"
	ExpenseCategoryTransport      ExpenseCategory = "transport"
	ExpenseCategoryShipping       ExpenseCategory = "shipping"
	ExpenseCategorySalaries       ExpenseCategory = "salaries"
	ExpenseCategoryRent           ExpenseCategory = "rent"
	ExpenseCategoryOfficeSupplies ExpenseCategory = "office_supplies"
	ExpenseCategoryMiscellaneous  ExpenseCategory = "miscellaneous"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategorySupplier, ExpenseCategoryTransport, ExpenseCategoryShipping,
		ExpenseCategorySalaries, ExpenseCategoryRent, ExpenseCategoryOfficeSupplies,
		ExpenseCategoryMiscellaneous:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// AllExpenseCategories lists every valid category in display order
func AllExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategorySupplier,
		ExpenseCategoryTransport,
		ExpenseCategoryShipping,
		ExpenseCategorySalaries,
		ExpenseCategoryRent,
		ExpenseCategoryOfficeSupplies,
		ExpenseCategoryMiscellaneous,
	}
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodEWallet      PaymentMethod = "e_wallet"
	PaymentMethodInstapay     PaymentMethod = "instapay"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodEWallet, PaymentMethodInstapay:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// LineItem is one structured sub-entry on a supplier expense, mirroring a
// line on the supplier's quotation.
type LineItem struct {
	LineNumber  int    `json:"lineNumber"`
	PartNumber  string `json:"partNumber"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
}

// PaymentRecord is the ledger aggregate root. Amount is the tax-exclusive
// base; VATAmount and TotalAmount are derived from the entered amount by the
// VAT calculator and satisfy TotalAmount == Amount + VATAmount at all times.
type PaymentRecord struct {
	shared.BaseEntity
	PartyName           string
	Amount              decimal.Decimal
	PaymentDate         time.Time
	Description         string
	QuotationNumber     string
	PurchaseOrderNumber string
	IncludesVAT         bool
	VATAmount           *decimal.Decimal
	TotalAmount         decimal.Decimal
	IsSettled           bool
	SettlementAmount    *decimal.Decimal
	SettlementDate      *time.Time
	SettlementNotes     string
	PaymentType         PaymentType
	ExpenseCategory     *ExpenseCategory
	PaymentMethod       *PaymentMethod
	LineItems           []LineItem
}

// NewPaymentRecord creates an unsettled payment record from user input. The
// entered amount is interpreted per the includesVAT flag and the derived
// amounts are applied before returning.
func NewPaymentRecord(
	partyName string,
	entered decimal.Decimal,
	paymentDate time.Time,
	includesVAT bool,
	paymentType PaymentType,
) (*PaymentRecord, error) {
	if partyName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party name cannot be empty")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment date is required")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment type must be expense or income")
	}

	amounts, err := ComputeAmounts(entered, includesVAT)
	if err != nil {
		return nil, err
	}

	record := &PaymentRecord{
		BaseEntity:  shared.NewBaseEntity(),
		PartyName:   partyName,
		PaymentDate: paymentDate,
		IncludesVAT: includesVAT,
		PaymentType: paymentType,
	}
	record.ApplyAmounts(amounts)

	return record, nil
}

// ApplyAmounts writes derived amounts onto the record. VATAmount is kept
// only when the computed tax is positive; zero-tax records carry no VAT.
func (p *PaymentRecord) ApplyAmounts(a Amounts) {
	p.Amount = a.Base
	p.TotalAmount = a.Total
	if a.VAT.IsPositive() {
		vat := a.VAT
		p.VATAmount = &vat
	} else {
		p.VATAmount = nil
	}
}

// SetExpenseCategory attaches a category; only expense records carry one.
func (p *PaymentRecord) SetExpenseCategory(category ExpenseCategory) error {
	if p.PaymentType != PaymentTypeExpense {
		return shared.NewDomainError("VALIDATION_ERROR", "Expense category applies to expense payments only")
	}
	if !category.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Expense category is not valid")
	}
	p.ExpenseCategory = &category
	return nil
}

// SetPaymentMethod attaches an optional payment method.
func (p *PaymentRecord) SetPaymentMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment method is not valid")
	}
	p.PaymentMethod = &method
	return nil
}

// Settle records the final invoiced figure for the payment. The settlement
// amount is stored verbatim and never run through the VAT calculator.
// Settling an already-settled record overwrites the prior settlement data,
// which is the only correction path a settled record has.
func (p *PaymentRecord) Settle(amount decimal.Decimal, date time.Time, notes string) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Settlement amount cannot be negative")
	}
	if date.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Settlement date is required")
	}

	settled := amount.Round(2)
	p.IsSettled = true
	p.SettlementAmount = &settled
	p.SettlementDate = &date
	p.SettlementNotes = notes
	p.Touch()

	return nil
}

// RecalcBasis returns the amount a recomputation should feed the VAT
// calculator when the caller changed the inclusion flag without supplying a
// new amount: the stored total when the effective flag treats the amount as
// VAT-inclusive, the stored base otherwise.
func (p *PaymentRecord) RecalcBasis(includesVAT bool) decimal.Decimal {
	if includesVAT {
		return p.TotalAmount
	}
	return p.Amount
}

// Touch bumps the update timestamp.
func (p *PaymentRecord) Touch() {
	p.UpdatedAt = time.Now()
}

// VATOrZero returns the VAT amount, treating absent as zero.
func (p *PaymentRecord) VATOrZero() decimal.Decimal {
	if p.VATAmount == nil {
		return decimal.Zero
	}
	return *p.VATAmount
}
