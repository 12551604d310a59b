package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Skotchmaster/recommendations/internal/models"
)

// ValidationError names the first field of a body or query that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidBody() *ValidationError {
	return &ValidationError{Message: "Invalid recommendation: body of request contained bad or no data"}
}

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "Invalid recommendation: missing " + field}
}

func wrongType(want, field string, v any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Invalid type for %s [%s]: %s", want, field, jsonKind(v)),
	}
}

func badValue(field string, v string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid value for %s: %s", field, v)}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// DecodeRecommendation parses a JSON object and checks src_product_id,
// rec_product_id, type and status in that order. Each must be present and of
// the exact JSON kind: integers for the product ids, strings naming an enum
// member for type and status. Unknown keys, including id, are ignored.
func DecodeRecommendation(body []byte) (RecommendationRequest, error) {
	var req RecommendationRequest

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return req, invalidBody()
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return req, invalidBody()
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return req, invalidBody()
	}

	var err error
	if req.SrcProductID, err = intField(obj, models.FieldSrcProductID); err != nil {
		return req, err
	}
	if req.RecProductID, err = intField(obj, models.FieldRecProductID); err != nil {
		return req, err
	}

	typ, err := stringField(obj, models.FieldType)
	if err != nil {
		return req, err
	}
	if req.Type, err = models.ParseType(typ); err != nil {
		return req, badValue(models.FieldType, typ)
	}

	status, err := stringField(obj, models.FieldStatus)
	if err != nil {
		return req, err
	}
	if req.Status, err = models.ParseStatus(status); err != nil {
		return req, badValue(models.FieldStatus, status)
	}

	return req, nil
}

func intField(obj map[string]any, field string) (int64, error) {
	v, ok := obj[field]
	if !ok {
		return 0, missing(field)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, wrongType("int", field, v)
	}
	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, wrongType("int", field, v)
	}
	return i, nil
}

func stringField(obj map[string]any, field string) (string, error) {
	v, ok := obj[field]
	if !ok {
		return "", missing(field)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType("string", field, v)
	}
	return s, nil
}
