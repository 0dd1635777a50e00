package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     int64  `json:"id" validate:"required,gt=0"`
	Kind   string `json:"kind" validate:"required,oneof=a b"`
	Hidden string `json:"-" validate:"required"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&sample{ID: 1, Kind: "a", Hidden: "x"}))
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(&sample{Kind: "c"})
	require.Error(t, err)

	var errs Errors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 3)

	assert.Equal(t, "id", errs[0].Field)
	assert.Equal(t, "id is required", errs[0].Message)
	assert.Equal(t, "kind", errs[1].Field)
	assert.Equal(t, "oneof", errs[1].Tag)
	assert.Equal(t, "kind must be one of: a b", errs[1].Message)
	assert.Equal(t, "Hidden", errs[2].Field)
}

func TestGet_Singleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
