package models

import (
	"errors"
	"fmt"
)

var ErrUnknownMember = errors.New("unknown enum member")

// Type classifies a recommendation. The zero value is not a valid Type.
type Type string

const (
	TypeCrossSell Type = "CROSS_SELL"
	TypeUpSell    Type = "UP_SELL"
	TypeAccessory Type = "ACCESSORY"
)

var Types = []Type{TypeCrossSell, TypeUpSell, TypeAccessory}

func ParseType(name string) (Type, error) {
	for _, t := range Types {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: type %q", ErrUnknownMember, name)
}

func (t Type) Valid() bool {
	_, err := ParseType(string(t))
	return err == nil
}

func (t Type) String() string { return string(t) }

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Status switches a recommendation on or off. The zero value is not a valid Status.
type Status string

const (
	StatusDisabled Status = "DISABLED"
	StatusEnabled  Status = "ENABLED"
)

var Statuses = []Status{StatusDisabled, StatusEnabled}

func ParseStatus(name string) (Status, error) {
	for _, s := range Statuses {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: status %q", ErrUnknownMember, name)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s Status) String() string { return string(s) }

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Column and JSON names of the recommendation fields.
const (
	FieldID           = "id"
	FieldSrcProductID = "src_product_id"
	FieldRecProductID = "rec_product_id"
	FieldType         = "type"
	FieldStatus       = "status"
)

type Recommendation struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"                          json:"id"`
	SrcProductID int64  `gorm:"not null;index"                                    json:"src_product_id"`
	RecProductID int64  `gorm:"not null;index"                                    json:"rec_product_id"`
	Type         Type   `gorm:"type:varchar(16);not null;default:'CROSS_SELL';index" json:"type"`
	Status       Status `gorm:"type:varchar(16);not null"                         json:"status"`
}

func (r Recommendation) String() string {
	return fmt.Sprintf("<Recommendation id=[%d], src_product_id=[%d], rec_product_id=[%d], type=[%s], status=[%s]>",
		r.ID, r.SrcProductID, r.RecProductID, r.Type, r.Status)
}
