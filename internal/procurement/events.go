package procurement

import "context"

// Change describes a purchase order mutation.
type Change struct {
	Previous PurchaseOrder
	Current  PurchaseOrder
	Created  bool
}

// Observer is notified after every successful purchase order save.
type Observer interface {
	OnPurchaseOrderUpdated(ctx context.Context, change Change)
}
