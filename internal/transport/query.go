package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/recommendations/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ListQuery carries the optional list filters exactly as they appear in the URL.
type ListQuery struct {
	SrcProductID string `query:"src_product_id" validate:"omitempty,numeric"`
	RecProductID string `query:"rec_product_id" validate:"omitempty,numeric"`
	Type         string `query:"type"           validate:"omitempty,oneof=CROSS_SELL UP_SELL ACCESSORY"`
}

// Filter validates the query and picks one criterion, preferring
// src_product_id, then rec_product_id, then type.
func (q ListQuery) Filter() (Filter, error) {
	if err := getValidator().Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Filter{}, &ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("Invalid query parameter [%s]: %v", fe.Field(), fe.Value()),
			}
		}
		return Filter{}, err
	}

	switch {
	case q.SrcProductID != "":
		return intFilter(models.FieldSrcProductID, q.SrcProductID)
	case q.RecProductID != "":
		return intFilter(models.FieldRecProductID, q.RecProductID)
	case q.Type != "":
		t, err := models.ParseType(q.Type)
		if err != nil {
			return Filter{}, badValue(models.FieldType, q.Type)
		}
		return Filter{Field: models.FieldType, Value: t}, nil
	}
	return Filter{}, nil
}

func intFilter(field, raw string) (Filter, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Filter{}, &ValidationError{Field: field, Message: "Invalid query parameter [" + field + "]: " + raw}
	}
	return Filter{Field: field, Value: v}, nil
}
