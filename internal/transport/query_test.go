package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/recommendations/internal/models"
)

func TestListQuery_Filter(t *testing.T) {
	tests := []struct {
		name  string
		query ListQuery
		want  Filter
	}{
		{name: "none", query: ListQuery{}, want: Filter{}},
		{
			name:  "src only",
			query: ListQuery{SrcProductID: "21"},
			want:  Filter{Field: models.FieldSrcProductID, Value: int64(21)},
		},
		{
			name:  "rec only",
			query: ListQuery{RecProductID: "50"},
			want:  Filter{Field: models.FieldRecProductID, Value: int64(50)},
		},
		{
			name:  "negative src",
			query: ListQuery{SrcProductID: "-4"},
			want:  Filter{Field: models.FieldSrcProductID, Value: int64(-4)},
		},
		{
			name:  "negative rec",
			query: ListQuery{RecProductID: "-4"},
			want:  Filter{Field: models.FieldRecProductID, Value: int64(-4)},
		},
		{
			name:  "type only",
			query: ListQuery{Type: "ACCESSORY"},
			want:  Filter{Field: models.FieldType, Value: models.TypeAccessory},
		},
		{
			name:  "src wins over rec and type",
			query: ListQuery{SrcProductID: "1", RecProductID: "2", Type: "UP_SELL"},
			want:  Filter{Field: models.FieldSrcProductID, Value: int64(1)},
		},
		{
			name:  "rec wins over type",
			query: ListQuery{RecProductID: "2", Type: "UP_SELL"},
			want:  Filter{Field: models.FieldRecProductID, Value: int64(2)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Filter()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Field == "", got.IsZero())
		})
	}
}

func TestListQuery_FilterInvalid(t *testing.T) {
	tests := []struct {
		name  string
		query ListQuery
		field string
	}{
		{name: "non numeric src", query: ListQuery{SrcProductID: "abc"}, field: "src_product_id"},
		{name: "fractional rec", query: ListQuery{RecProductID: "1.5"}, field: "rec_product_id"},
		{name: "signed garbage", query: ListQuery{SrcProductID: "-x"}, field: "src_product_id"},
		{name: "unknown type", query: ListQuery{Type: "BOGUS"}, field: "type"},
		{name: "overflow", query: ListQuery{SrcProductID: "99999999999999999999"}, field: "src_product_id"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.query.Filter()

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, verr.Message, tt.field)
		})
	}
}
