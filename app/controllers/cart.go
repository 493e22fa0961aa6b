package controllers

import (
	"net/http"

	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/pkg/response"
)

// CartController serves /api/carts. The cart is always the caller's own.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := c.carts.Get(r.Context(), caller(r).UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cart)
}

func (c *CartController) Save(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.SaveCartItem](w, r)
	if !ok {
		return
	}

	cart, err := c.carts.Save(r.Context(), caller(r).UserID, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cart)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.carts.RemoveItem(r.Context(), caller(r).UserID, id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

func (c *CartController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.carts.Delete(r.Context(), caller(r).UserID); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

func (c *CartController) Confirm(w http.ResponseWriter, r *http.Request) {
	order, err := c.carts.Confirm(r.Context(), caller(r).UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, order)
}

// OrderController serves /api/orders.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (c *OrderController) GetList(w http.ResponseWriter, r *http.Request) {
	orders, page, err := c.orders.GetList(r.Context(), ownerScope(caller(r)), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, orders, page)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Get(r.Context(), ownerScope(caller(r)), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.UpdateOrderStatus](w, r)
	if !ok {
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), ownerScope(caller(r)), id, req.Status)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.orders.Delete(r.Context(), ownerScope(caller(r)), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
