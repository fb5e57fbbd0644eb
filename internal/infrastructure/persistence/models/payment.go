package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/qurtubah/treasury/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentRecordModel is the persistence model for the PaymentRecord aggregate.
type PaymentRecordModel struct {
	ID                  uuid.UUID               `gorm:"type:uuid;primary_key"`
	PartyName           string                  `gorm:"type:varchar(255);not null"`
	Amount              decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	PaymentDate         time.Time               `gorm:"not null;index"`
	Description         string                  `gorm:"type:text"`
	QuotationNumber     string                  `gorm:"type:varchar(100)"`
	PurchaseOrderNumber string                  `gorm:"type:varchar(100)"`
	IncludesVAT         bool                    `gorm:"not null"`
	VATAmount           *decimal.Decimal        `gorm:"type:decimal(18,2)"`
	TotalAmount         decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	IsSettled           bool                    `gorm:"not null;default:false;index"`
	SettlementAmount    *decimal.Decimal        `gorm:"type:decimal(18,2)"`
	SettlementDate      *time.Time
	SettlementNotes     string                  `gorm:"type:text"`
	PaymentType         ledger.PaymentType      `gorm:"type:varchar(10);not null;index"`
	ExpenseCategory     *ledger.ExpenseCategory `gorm:"type:varchar(30);index"`
	PaymentMethod       *ledger.PaymentMethod   `gorm:"type:varchar(20)"`
	LineItems           string                  `gorm:"type:text"` // JSON array
	CreatedAt           time.Time               `gorm:"not null;index"`
	UpdatedAt           time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentRecordModel) TableName() string {
	return "payment_records"
}

// ToDomain converts the persistence model to a domain PaymentRecord.
func (m *PaymentRecordModel) ToDomain() *ledger.PaymentRecord {
	var lineItems []ledger.LineItem
	if m.LineItems != "" {
		// A corrupt blob degrades to no line items rather than failing the read.
		_ = json.Unmarshal([]byte(m.LineItems), &lineItems)
	}

	return &ledger.PaymentRecord{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		PartyName:           m.PartyName,
		Amount:              m.Amount,
		PaymentDate:         m.PaymentDate,
		Description:         m.Description,
		QuotationNumber:     m.QuotationNumber,
		PurchaseOrderNumber: m.PurchaseOrderNumber,
		IncludesVAT:         m.IncludesVAT,
		VATAmount:           m.VATAmount,
		TotalAmount:         m.TotalAmount,
		IsSettled:           m.IsSettled,
		SettlementAmount:    m.SettlementAmount,
		SettlementDate:      m.SettlementDate,
		SettlementNotes:     m.SettlementNotes,
		PaymentType:         m.PaymentType,
		ExpenseCategory:     m.ExpenseCategory,
		PaymentMethod:       m.PaymentMethod,
		LineItems:           lineItems,
	}
}

// FromDomain populates the persistence model from a domain PaymentRecord.
func (m *PaymentRecordModel) FromDomain(p *ledger.PaymentRecord) {
	m.ID = p.ID
	m.PartyName = p.PartyName
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Description = p.Description
	m.QuotationNumber = p.QuotationNumber
	m.PurchaseOrderNumber = p.PurchaseOrderNumber
	m.IncludesVAT = p.IncludesVAT
	m.VATAmount = p.VATAmount
	m.TotalAmount = p.TotalAmount
	m.IsSettled = p.IsSettled
	m.SettlementAmount = p.SettlementAmount
	m.SettlementDate = p.SettlementDate
	m.SettlementNotes = p.SettlementNotes
	m.PaymentType = p.PaymentType
	m.ExpenseCategory = p.ExpenseCategory
	m.PaymentMethod = p.PaymentMethod
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt

	m.LineItems = ""
	if len(p.LineItems) > 0 {
		if data, err := json.Marshal(p.LineItems); err == nil {
			m.LineItems = string(data)
		}
	}
}

// PaymentRecordModelFromDomain creates a new persistence model from domain.
func PaymentRecordModelFromDomain(p *ledger.PaymentRecord) *PaymentRecordModel {
	m := &PaymentRecordModel{}
	m.FromDomain(p)
	return m
}
