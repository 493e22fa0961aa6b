// Package bind decodes an HTTP request body into a request struct and runs
// its explicit validation function.
//
// Request types implement Validator with hand-written checks; field errors
// come back as a map rendered by response.ValidationError. There is no
// reflection-driven rule engine: every rule is plain code next to the type
// it guards.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lidosole/lidosole/config"
)

// Validator is implemented by request types that validate themselves.
type Validator interface {
	// Validate returns field → message pairs; empty means valid.
	Validate() map[string]string
}

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

// JSON decodes r.Body into dest and validates it when dest implements
// Validator. Returns (errs, nil) on validation failure and (nil, err) on a
// malformed or oversized body.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if v, ok := dest.(Validator); ok {
		if errs = v.Validate(); len(errs) > 0 {
			return errs, nil
		}
	}

	return nil, nil
}
