package invoicing

import "context"

// Observer is notified after every successful invoice save.
type Observer interface {
	OnInvoiceUpdated(ctx context.Context, change Change)
}
