// Package controllers adapts HTTP requests to the domain services: decode
// and validate the body, resolve the caller, invoke the service, render the
// envelope. No business rules live here.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lidosole/lidosole/app/models"
	"github.com/lidosole/lidosole/pkg/bind"
	"github.com/lidosole/lidosole/pkg/middleware"
	"github.com/lidosole/lidosole/pkg/orm"
	"github.com/lidosole/lidosole/pkg/response"
)

// decode binds and validates the request body, writing the error response
// itself on failure. The second return is false when the handler should stop.
func decode[T bind.Validator](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return req, false
	}
	return req, true
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// pageRequest reads pageIndex, itemsPerPage, orderBy and desc from the query
// string. Bounds and whitelist checks happen in pkg/orm.
func pageRequest(r *http.Request) orm.PageRequest {
	q := r.URL.Query()
	pageIndex, _ := strconv.Atoi(q.Get("pageIndex"))
	itemsPerPage, _ := strconv.Atoi(q.Get("itemsPerPage"))
	return orm.PageRequest{
		PageIndex:    pageIndex,
		ItemsPerPage: itemsPerPage,
		OrderBy:      q.Get("orderBy"),
		Descending:   q.Get("desc") == "true",
	}
}

// caller returns the authenticated principal. Routes behind the auth
// middleware always carry one.
func caller(r *http.Request) middleware.Principal {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	return p
}

// ownerScope returns 0 (no owner filter) for staff roles, otherwise the
// caller's own user id.
func ownerScope(p middleware.Principal) uint {
	switch p.Role {
	case models.RoleAdmin, models.RolePowerUser:
		return 0
	default:
		return p.UserID
	}
}
