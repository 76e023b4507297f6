package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizia-events/rizia-backend/internal/apperror"
)

const maxBodyBytes = 1 << 20

// BindStrictJSON decodes the request body into dst, rejecting unknown fields
// and trailing data. Errors are InvalidInput.
func BindStrictJSON(c *gin.Context, dst any) error {
	err := decodeStrict(c, dst)
	if errors.Is(err, io.EOF) {
		return apperror.InvalidInput("request body is required")
	}
	return err
}

// BindOptionalJSON is BindStrictJSON for bodies that may be absent. An empty
// body leaves dst untouched; anything else must decode cleanly.
func BindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	err := decodeStrict(c, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func decodeStrict(c *gin.Context, dst any) error {
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		msg := err.Error()
		if strings.HasPrefix(msg, "json: unknown field ") {
			return apperror.InvalidInput(fmt.Sprintf("unknown field %s", strings.TrimPrefix(msg, "json: unknown field ")))
		}
		return apperror.InvalidInput("malformed JSON body")
	}
	if dec.More() {
		return apperror.InvalidInput("request body must be a single JSON object")
	}
	return nil
}
