package requests

import "strings"

// Category creates or updates a category.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r Category) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(r.Description) == "" {
		errs["description"] = "description is required"
	}
	return errs
}

// Product creates or updates a product. Quantity nil means unlimited stock.
type Product struct {
	CategoryID  uint    `json:"categoryId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    *int    `json:"quantity"`
	Price       float64 `json:"price"`
}

func (r Product) Validate() map[string]string {
	errs := map[string]string{}
	if r.CategoryID == 0 {
		errs["categoryId"] = "category is required"
	}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		errs["quantity"] = "quantity cannot be negative"
	}
	if r.Price < 0 {
		errs["price"] = "price cannot be negative"
	}
	return errs
}
