package controllers

import (
	"net/http"

	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/pkg/response"
)

// UmbrellaController serves /api/umbrellas. Reads are public; writes are
// staff only (enforced by the route group).
type UmbrellaController struct {
	umbrellas *services.UmbrellaService
}

func NewUmbrellaController(umbrellas *services.UmbrellaService) *UmbrellaController {
	return &UmbrellaController{umbrellas: umbrellas}
}

func (c *UmbrellaController) Insert(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Umbrella](w, r)
	if !ok {
		return
	}

	umbrella, err := c.umbrellas.Insert(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, umbrella)
}

func (c *UmbrellaController) GetList(w http.ResponseWriter, r *http.Request) {
	umbrellas, page, err := c.umbrellas.GetList(r.Context(), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, umbrellas, page)
}

func (c *UmbrellaController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	umbrella, err := c.umbrellas.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, umbrella)
}

func (c *UmbrellaController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.Umbrella](w, r)
	if !ok {
		return
	}

	umbrella, err := c.umbrellas.Update(r.Context(), id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, umbrella)
}

func (c *UmbrellaController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.UmbrellaStatus](w, r)
	if !ok {
		return
	}

	umbrella, err := c.umbrellas.UpdateStatus(r.Context(), id, req.Busy)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, umbrella)
}

func (c *UmbrellaController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.umbrellas.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// ReservationController serves /api/reservations.
type ReservationController struct {
	reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{reservations: reservations}
}

func (c *ReservationController) Insert(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Reservation](w, r)
	if !ok {
		return
	}

	reservation, err := c.reservations.Insert(r.Context(), caller(r).UserID, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, reservation)
}

func (c *ReservationController) GetList(w http.ResponseWriter, r *http.Request) {
	reservations, page, err := c.reservations.GetList(r.Context(), ownerScope(caller(r)), pageRequest(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Paginated(w, reservations, page)
}

func (c *ReservationController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	reservation, err := c.reservations.Get(r.Context(), ownerScope(caller(r)), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, reservation)
}

func (c *ReservationController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	req, ok := decode[requests.Reservation](w, r)
	if !ok {
		return
	}

	reservation, err := c.reservations.Update(r.Context(), ownerScope(caller(r)), id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, reservation)
}

func (c *ReservationController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.reservations.Delete(r.Context(), ownerScope(caller(r)), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
