package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type inner struct {
	Suburb string `json:"suburb" validate:"required"`
}

type outer struct {
	Email string `json:"customerEmail" validate:"required,email"`
	Price int64  `json:"price" validate:"gt=0"`
	Meta  *inner `json:"metadata" validate:"required"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(outer{Email: "a@b.com", Price: 1, Meta: &inner{Suburb: "Bondi"}}))

	errs := Validate(outer{Email: "nope", Meta: &inner{}})
	assert.Equal(t, "email", errs["customerEmail"])
	assert.Equal(t, "gt", errs["price"])
	assert.Equal(t, "required", errs["metadata.suburb"])

	errs = Validate(outer{Email: "a@b.com", Price: 1})
	assert.Equal(t, "required", errs["metadata"])
}
