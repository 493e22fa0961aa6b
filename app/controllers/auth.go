package controllers

import (
	"net/http"

	"github.com/lidosole/lidosole/app/requests"
	"github.com/lidosole/lidosole/app/services"
	"github.com/lidosole/lidosole/pkg/response"
)

// AuthController exposes registration, verification and the token endpoints.
type AuthController struct {
	identity *services.IdentityService
}

func NewAuthController(identity *services.IdentityService) *AuthController {
	return &AuthController{identity: identity}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Register](w, r)
	if !ok {
		return
	}

	user, err := c.identity.Register(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, user)
}

func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	user, err := c.identity.VerifyEmail(r.Context(), token)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Login](w, r)
	if !ok {
		return
	}

	pair, err := c.identity.Login(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, pair)
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.Refresh](w, r)
	if !ok {
		return
	}

	pair, err := c.identity.Refresh(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, pair)
}

// Me returns the caller's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := c.identity.Me(r.Context(), caller(r).UserID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

// UpdateMe changes the caller's display names.
func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[requests.UpdateProfile](w, r)
	if !ok {
		return
	}

	user, err := c.identity.UpdateProfile(r.Context(), caller(r).UserID, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}
