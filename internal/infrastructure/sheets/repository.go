package sheets

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/qurtubah/treasury/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Column positions within a payment row (A through S)
const (
	colID = iota
	colPartyName
	colAmount
	colPaymentDate
	colDescription
	colQuotationNumber
	colPurchaseOrderNumber
	colIncludesVAT
	colVATAmount
	colTotalAmount
	colIsSettled
	colSettlementAmount
	colSettlementDate
	colSettlementNotes
	colPaymentType
	colExpenseCategory
	colPaymentMethod
	colLineItems
	colCreatedAt
	columnCount
)

// PaymentRepository implements ledger.PaymentRepository over a positional
// RowStore. Rows carry no id index, so update and delete locate the target
// by scanning for the matching id and addressing its 1-based position.
type PaymentRepository struct {
	store RowStore
}

// NewPaymentRepository creates a sheets-backed payment repository
func NewPaymentRepository(store RowStore) *PaymentRepository {
	return &PaymentRepository{store: store}
}

// FindAll returns every payment record in sheet order
func (r *PaymentRepository) FindAll(ctx context.Context) ([]*ledger.PaymentRecord, error) {
	rows, err := r.store.ListRows(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*ledger.PaymentRecord, len(rows))
	for i, row := range rows {
		records[i] = rowToPayment(row)
	}
	return records, nil
}

// FindByID returns the record with the given id, or nil when absent
func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentRecord, error) {
	_, record, err := r.locate(ctx, id)
	return record, err
}

// Save appends a new payment row
func (r *PaymentRepository) Save(ctx context.Context, record *ledger.PaymentRecord) error {
	return r.store.AppendRow(ctx, paymentToRow(record))
}

// Update overwrites the row holding the record's id
func (r *PaymentRepository) Update(ctx context.Context, record *ledger.PaymentRecord) error {
	position, existing, err := r.locate(ctx, record.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return shared.ErrNotFound
	}
	return r.store.UpdateRow(ctx, position, paymentToRow(record))
}

// Delete removes the row holding the given id
func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	position, existing, err := r.locate(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return shared.ErrNotFound
	}
	return r.store.DeleteRow(ctx, position)
}

// locate scans for the row with the given id and returns its 1-based
// position. A missing id yields (0, nil, nil).
func (r *PaymentRepository) locate(ctx context.Context, id uuid.UUID) (int, *ledger.PaymentRecord, error) {
	rows, err := r.store.ListRows(ctx)
	if err != nil {
		return 0, nil, err
	}
	target := id.String()
	for i, row := range rows {
		if len(row) > colID && row[colID] == target {
			return i + 1, rowToPayment(row), nil
		}
	}
	return 0, nil, nil
}

func paymentToRow(p *ledger.PaymentRecord) []string {
	row := make([]string, columnCount)
	row[colID] = p.ID.String()
	row[colPartyName] = p.PartyName
	row[colAmount] = p.Amount.StringFixed(2)
	row[colPaymentDate] = p.PaymentDate.Format(time.RFC3339)
	row[colDescription] = p.Description
	row[colQuotationNumber] = p.QuotationNumber
	row[colPurchaseOrderNumber] = p.PurchaseOrderNumber
	row[colIncludesVAT] = formatBool(p.IncludesVAT)
	if p.VATAmount != nil {
		row[colVATAmount] = p.VATAmount.StringFixed(2)
	}
	row[colTotalAmount] = p.TotalAmount.StringFixed(2)
	row[colIsSettled] = formatBool(p.IsSettled)
	if p.SettlementAmount != nil {
		row[colSettlementAmount] = p.SettlementAmount.StringFixed(2)
	}
	if p.SettlementDate != nil {
		row[colSettlementDate] = p.SettlementDate.Format(time.RFC3339)
	}
	row[colSettlementNotes] = p.SettlementNotes
	row[colPaymentType] = p.PaymentType.String()
	if p.ExpenseCategory != nil {
		row[colExpenseCategory] = p.ExpenseCategory.String()
	}
	if p.PaymentMethod != nil {
		row[colPaymentMethod] = p.PaymentMethod.String()
	}
	if len(p.LineItems) > 0 {
		if data, err := json.Marshal(p.LineItems); err == nil {
			row[colLineItems] = string(data)
		}
	}
	row[colCreatedAt] = p.CreatedAt.Format(time.RFC3339)
	return row
}

func rowToPayment(row []string) *ledger.PaymentRecord {
	record := &ledger.PaymentRecord{
		BaseEntity: shared.BaseEntity{
			ID:        parseUUID(cell(row, colID)),
			CreatedAt: parseTime(cell(row, colCreatedAt)),
		},
		PartyName:           cell(row, colPartyName),
		Amount:              parseDecimal(cell(row, colAmount)),
		PaymentDate:         parseTime(cell(row, colPaymentDate)),
		Description:         cell(row, colDescription),
		QuotationNumber:     cell(row, colQuotationNumber),
		PurchaseOrderNumber: cell(row, colPurchaseOrderNumber),
		IncludesVAT:         cell(row, colIncludesVAT) == "TRUE",
		TotalAmount:         parseDecimal(cell(row, colTotalAmount)),
		IsSettled:           cell(row, colIsSettled) == "TRUE",
		SettlementNotes:     cell(row, colSettlementNotes),
		PaymentType:         ledger.PaymentType(cell(row, colPaymentType)),
	}
	// The sheet carries no updated-at column, so the read-back timestamp
	// falls back to creation time.
	record.UpdatedAt = record.CreatedAt

	if v := cell(row, colVATAmount); v != "" {
		vat := parseDecimal(v)
		record.VATAmount = &vat
	}
	if v := cell(row, colSettlementAmount); v != "" {
		amount := parseDecimal(v)
		record.SettlementAmount = &amount
	}
	if v := cell(row, colSettlementDate); v != "" {
		date := parseTime(v)
		record.SettlementDate = &date
	}
	if v := cell(row, colExpenseCategory); v != "" {
		category := ledger.ExpenseCategory(v)
		record.ExpenseCategory = &category
	}
	if v := cell(row, colPaymentMethod); v != "" {
		method := ledger.PaymentMethod(v)
		record.PaymentMethod = &method
	}
	if v := cell(row, colLineItems); v != "" {
		var items []ledger.LineItem
		if err := json.Unmarshal([]byte(v), &items); err == nil {
			record.LineItems = items
		}
	}

	return record
}

// cell reads a column tolerating short rows, which the Sheets API produces
// when trailing cells are empty.
func cell(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func formatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
