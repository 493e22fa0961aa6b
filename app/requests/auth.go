// Package requests holds the JSON request bodies of the API together with
// their validation rules. Each type implements bind.Validator with an
// explicit Validate function returning a field to message map; bind.JSON
// runs it after decoding and the controller replies 422 with the map.
package requests

import (
	"net/mail"
	"strings"
	"unicode"
)

// Register creates an unverified account.
type Register struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r Register) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.FirstName) == "" {
		errs["firstName"] = "first name is required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs["lastName"] = "last name is required"
	}
	validateEmail(errs, r.Email)
	validatePassword(errs, r.Password)
	return errs
}

// Login exchanges credentials for a token pair.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r Login) Validate() map[string]string {
	errs := map[string]string{}
	validateEmail(errs, r.Email)
	if r.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

// Refresh rotates an expired access token using the stored refresh token.
type Refresh struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (r Refresh) Validate() map[string]string {
	errs := map[string]string{}
	if r.AccessToken == "" {
		errs["accessToken"] = "access token is required"
	}
	if r.RefreshToken == "" {
		errs["refreshToken"] = "refresh token is required"
	}
	return errs
}

// UpdateProfile changes the caller's display names.
type UpdateProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r UpdateProfile) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.FirstName) == "" {
		errs["firstName"] = "first name is required"
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs["lastName"] = "last name is required"
	}
	return errs
}

func validateEmail(errs map[string]string, email string) {
	if email == "" {
		errs["email"] = "email is required"
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "email is not a valid address"
	}
}

func validatePassword(errs map[string]string, password string) {
	if len(password) < 8 {
		errs["password"] = "password must be at least 8 characters"
		return
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		errs["password"] = "password must contain letters and digits"
	}
}
