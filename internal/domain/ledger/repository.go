package ledger

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository abstracts the record store. Implementations index
// records however they like (id-keyed rows in a database, positional rows in
// a spreadsheet); callers only ever address records by id.
type PaymentRepository interface {
	FindAll(ctx context.Context) ([]*PaymentRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRecord, error)
	Save(ctx context.Context, record *PaymentRecord) error
	Update(ctx context.Context, record *PaymentRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}
