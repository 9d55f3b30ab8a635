// Package bind decodes an HTTP request body into a struct.
//
// Validation happens in the services, per operation. bind only guards
// the transport concerns: malformed JSON and oversized bodies.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/stockpile/config"
)

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20 // 4 MB
	}
	return n
}

// JSON decodes r.Body as JSON into dest.
// The body is capped at MAX_BODY_BYTES (default 4 MB) to prevent memory
// exhaustion. Returns an error when the body is malformed or too large.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
