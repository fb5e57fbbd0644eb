package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/qurtubah/treasury/internal/domain/shared"
)

const dateLayout = "2006-01-02"

// DefaultRecentLimit bounds the recent-payments listing when no limit is given.
const DefaultRecentLimit = 10

// Service provides application-level payment ledger operations
type Service struct {
	repo ledger.PaymentRepository
}

// NewService creates a new ledger Service
func NewService(repo ledger.PaymentRepository) *Service {
	return &Service{repo: repo}
}

// PaymentResponse represents a payment record in API responses. Monetary
// values are fixed 2-decimal strings.
type PaymentResponse struct {
	ID                  uuid.UUID          `json:"id"`
	PartyName           string             `json:"partyName"`
	Amount              string             `json:"amount"`
	PaymentDate         string             `json:"paymentDate"`
	Description         string             `json:"description,omitempty"`
	QuotationNumber     string             `json:"quotationNumber,omitempty"`
	PurchaseOrderNumber string             `json:"purchaseOrderNumber,omitempty"`
	IncludesVAT         bool               `json:"includesVAT"`
	VATAmount           *string            `json:"vatAmount,omitempty"`
	TotalAmount         string             `json:"totalAmount"`
	IsSettled           bool               `json:"isSettled"`
	SettlementAmount    *string            `json:"settlementAmount,omitempty"`
	SettlementDate      *string            `json:"settlementDate,omitempty"`
	SettlementNotes     string             `json:"settlementNotes,omitempty"`
	PaymentType         string             `json:"paymentType"`
	ExpenseCategory     *string            `json:"expenseCategory,omitempty"`
	PaymentMethod       *string            `json:"paymentMethod,omitempty"`
	LineItems           []ledger.LineItem  `json:"lineItems,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// CreatePaymentRequest represents a request to record a payment
type CreatePaymentRequest struct {
	PartyName           string            `json:"partyName" binding:"required"`
	Amount              string            `json:"amount" binding:"required"`
	PaymentDate         string            `json:"paymentDate" binding:"required"`
	Description         string            `json:"description"`
	QuotationNumber     string            `json:"quotationNumber"`
	PurchaseOrderNumber string            `json:"purchaseOrderNumber"`
	IncludesVAT         bool              `json:"includesVAT"`
	PaymentType         string            `json:"paymentType" binding:"required,paymenttype"`
	ExpenseCategory     string            `json:"expenseCategory" binding:"omitempty,expensecategory"`
	PaymentMethod       string            `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	LineItems           []ledger.LineItem `json:"lineItems"`
}

// UpdatePaymentRequest represents a partial update. Nil fields are left
// unchanged on the stored record.
type UpdatePaymentRequest struct {
	PartyName           *string            `json:"partyName"`
	Amount              *string            `json:"amount"`
	PaymentDate         *string            `json:"paymentDate"`
	Description         *string            `json:"description"`
	QuotationNumber     *string            `json:"quotationNumber"`
	PurchaseOrderNumber *string            `json:"purchaseOrderNumber"`
	IncludesVAT         *bool              `json:"includesVAT"`
	PaymentType         *string            `json:"paymentType"`
	ExpenseCategory     *string            `json:"expenseCategory"`
	PaymentMethod       *string            `json:"paymentMethod"`
	LineItems           *[]ledger.LineItem `json:"lineItems"`
}

// SettlePaymentRequest records the final invoiced figure for a payment
type SettlePaymentRequest struct {
	SettlementAmount string `json:"settlementAmount" binding:"required"`
	SettlementDate   string `json:"settlementDate" binding:"required"`
	SettlementNotes  string `json:"settlementNotes"`
}

// ListAll returns every payment record in store order
func (s *Service) ListAll(ctx context.Context) ([]*PaymentResponse, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(records), nil
}

// ListRecent returns up to limit records ordered newest first by creation
// time. A non-positive limit falls back to the default.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*PaymentResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// Stable sort keeps store order for records created in the same instant.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}

	return toPaymentResponses(records), nil
}

// GetByID returns a single payment record
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	record, err := s.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(record), nil
}

// Create validates the request, derives the VAT amounts and persists a new
// unsettled payment record.
func (s *Service) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	entered, err := ledger.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	paymentDate, err := parseDate(req.PaymentDate, "paymentDate")
	if err != nil {
		return nil, err
	}

	record, err := ledger.NewPaymentRecord(
		req.PartyName,
		entered,
		paymentDate,
		req.IncludesVAT,
		ledger.PaymentType(req.PaymentType),
	)
	if err != nil {
		return nil, err
	}

	record.Description = req.Description
	record.QuotationNumber = req.QuotationNumber
	record.PurchaseOrderNumber = req.PurchaseOrderNumber
	record.LineItems = req.LineItems

	if req.ExpenseCategory != "" {
		if err := record.SetExpenseCategory(ledger.ExpenseCategory(req.ExpenseCategory)); err != nil {
			return nil, err
		}
	}
	if req.PaymentMethod != "" {
		if err := record.SetPaymentMethod(ledger.PaymentMethod(req.PaymentMethod)); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	return toPaymentResponse(record), nil
}

// Update merges the partial request onto the stored record. When the amount
// or the VAT-inclusion flag changes, base/VAT/total are re-derived: from the
// new amount when one is supplied, otherwise from the stored total when the
// effective flag is true and the stored base when it is false. That keeps
// "the number the user already confirmed" stable across a flag flip.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	record, err := s.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PartyName != nil {
		if *req.PartyName == "" {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Party name cannot be empty")
		}
		record.PartyName = *req.PartyName
	}
	if req.PaymentDate != nil {
		paymentDate, err := parseDate(*req.PaymentDate, "paymentDate")
		if err != nil {
			return nil, err
		}
		record.PaymentDate = paymentDate
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.QuotationNumber != nil {
		record.QuotationNumber = *req.QuotationNumber
	}
	if req.PurchaseOrderNumber != nil {
		record.PurchaseOrderNumber = *req.PurchaseOrderNumber
	}
	if req.PaymentType != nil {
		paymentType := ledger.PaymentType(*req.PaymentType)
		if !paymentType.IsValid() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment type must be expense or income")
		}
		record.PaymentType = paymentType
		if paymentType != ledger.PaymentTypeExpense {
			record.ExpenseCategory = nil
		}
	}
	if req.ExpenseCategory != nil {
		if *req.ExpenseCategory == "" {
			record.ExpenseCategory = nil
		} else if err := record.SetExpenseCategory(ledger.ExpenseCategory(*req.ExpenseCategory)); err != nil {
			return nil, err
		}
	}
	if req.PaymentMethod != nil {
		if *req.PaymentMethod == "" {
			record.PaymentMethod = nil
		} else if err := record.SetPaymentMethod(ledger.PaymentMethod(*req.PaymentMethod)); err != nil {
			return nil, err
		}
	}
	if req.LineItems != nil {
		record.LineItems = *req.LineItems
	}

	flagChanged := req.IncludesVAT != nil && *req.IncludesVAT != record.IncludesVAT
	if req.Amount != nil || flagChanged {
		includesVAT := record.IncludesVAT
		if req.IncludesVAT != nil {
			includesVAT = *req.IncludesVAT
		}

		entered := record.RecalcBasis(includesVAT)
		if req.Amount != nil {
			entered, err = ledger.ParseAmount(*req.Amount)
			if err != nil {
				return nil, err
			}
		}

		amounts, err := ledger.ComputeAmounts(entered, includesVAT)
		if err != nil {
			return nil, err
		}
		record.IncludesVAT = includesVAT
		record.ApplyAmounts(amounts)
	}

	record.Touch()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	return toPaymentResponse(record), nil
}

// Delete removes a payment record permanently
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findRecord(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Settle marks the record settled with the final invoiced figure. The
// settlement amount is stored as given and not run through the VAT
// calculator; re-settling a settled record overwrites the previous figures.
func (s *Service) Settle(ctx context.Context, id uuid.UUID, req SettlePaymentRequest) (*PaymentResponse, error) {
	record, err := s.findRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	amount, err := ledger.ParseAmount(req.SettlementAmount)
	if err != nil {
		return nil, err
	}
	settlementDate, err := parseDate(req.SettlementDate, "settlementDate")
	if err != nil {
		return nil, err
	}

	if err := record.Settle(amount, settlementDate, req.SettlementNotes); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	return toPaymentResponse(record), nil
}

func (s *Service) findRecord(ctx context.Context, id uuid.UUID) (*ledger.PaymentRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Payment record not found")
	}
	return record, nil
}

func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, shared.NewDomainError("VALIDATION_ERROR", field+" is required")
	}
	// Accept both plain dates and full RFC 3339 timestamps.
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("VALIDATION_ERROR", field+" must be a valid date")
	}
	return t, nil
}

func toPaymentResponse(record *ledger.PaymentRecord) *PaymentResponse {
	resp := &PaymentResponse{
		ID:                  record.ID,
		PartyName:           record.PartyName,
		Amount:              record.Amount.StringFixed(2),
		PaymentDate:         record.PaymentDate.Format(dateLayout),
		Description:         record.Description,
		QuotationNumber:     record.QuotationNumber,
		PurchaseOrderNumber: record.PurchaseOrderNumber,
		IncludesVAT:         record.IncludesVAT,
		TotalAmount:         record.TotalAmount.StringFixed(2),
		IsSettled:           record.IsSettled,
		SettlementNotes:     record.SettlementNotes,
		PaymentType:         record.PaymentType.String(),
		LineItems:           record.LineItems,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}

	if record.VATAmount != nil {
		vat := record.VATAmount.StringFixed(2)
		resp.VATAmount = &vat
	}
	if record.SettlementAmount != nil {
		amount := record.SettlementAmount.StringFixed(2)
		resp.SettlementAmount = &amount
	}
	if record.SettlementDate != nil {
		date := record.SettlementDate.Format(dateLayout)
		resp.SettlementDate = &date
	}
	if record.ExpenseCategory != nil {
		category := record.ExpenseCategory.String()
		resp.ExpenseCategory = &category
	}
	if record.PaymentMethod != nil {
		method := record.PaymentMethod.String()
		resp.PaymentMethod = &method
	}

	return resp
}

func toPaymentResponses(records []*ledger.PaymentRecord) []*PaymentResponse {
	responses := make([]*PaymentResponse, len(records))
	for i, record := range records {
		responses[i] = toPaymentResponse(record)
	}
	return responses
}
