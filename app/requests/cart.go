package requests

import "github.com/lidosole/lidosole/app/models"

// SaveCartItem adds a product to a cart. The service clamps Quantity to the
// product's available stock; the validator only rejects nonsense values.
type SaveCartItem struct {
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

func (r SaveCartItem) Validate() map[string]string {
	errs := map[string]string{}
	if r.ProductID == 0 {
		errs["productId"] = "product is required"
	}
	if r.Quantity < 1 {
		errs["quantity"] = "quantity must be at least 1"
	}
	return errs
}

// UpdateOrderStatus moves an order to a new status.
type UpdateOrderStatus struct {
	Status string `json:"status"`
}

func (r UpdateOrderStatus) Validate() map[string]string {
	errs := map[string]string{}
	switch r.Status {
	case models.OrderStatusNew, models.OrderStatusPaid,
		models.OrderStatusShipped, models.OrderStatusCancelled:
	default:
		errs["status"] = "status must be one of: new, paid, shipped, cancelled"
	}
	return errs
}
