package request

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	errEmptyBody  = errors.New("request body must not be empty")
	errEmptyBatch = errors.New("request body must contain at least one item")
	errTimestamp  = errors.New("must be an ISO-8601 timestamp")
	errPositive   = errors.New("must be greater than 0")
	errBlank      = errors.New("cannot be blank")
)

func init() {
	// Every payload is strictly shaped: unknown fields are a bad request.
	binding.EnableDecoderDisallowUnknownFields = true
}

// DecodeOneOrMany reads either a single JSON object or a JSON array of objects into items.
// isBatch reports whether the body was an array.
func DecodeOneOrMany[T any](ctx *gin.Context) (items []T, isBatch bool, err error) {
	body, err := ctx.GetRawData()
	if err != nil {
		return nil, false, fmt.Errorf("ctx.GetRawData -> %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, false, errEmptyBody
	}

	if body[0] == '[' {
		if err = binding.JSON.BindBody(body, &items); err != nil {
			return nil, true, err
		}
		if len(items) == 0 {
			return nil, true, errEmptyBatch
		}

		return items, true, nil
	}

	var item T
	if err = binding.JSON.BindBody(body, &item); err != nil {
		return nil, false, err
	}

	return []T{item}, false, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339 and the zone-less forms a browser date picker sends.
// Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errTimestamp
}

func isTimestamp(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}

	_, err := ParseTimestamp(s)

	return err
}

func isPositive(value interface{}) error {
	v, _ := value.(*int)
	if v != nil && *v <= 0 {
		return errPositive
	}

	return nil
}

func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if strings.TrimSpace(s) == "" {
		return errBlank
	}

	return nil
}
