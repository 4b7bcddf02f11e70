package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Color string `json:"color" validate:"omitempty,test_color"`
}

func init() {
	RegisterString("test_color", func(s string) bool { return s == "red" || s == "blue" }, "Invalid color")
}

func TestValidateUsesJSONNames(t *testing.T) {
	errs := Validate(&sample{})
	assert.Equal(t, map[string]string{"name": "This field is required"}, errs)
}

func TestValidateCustomTagMessage(t *testing.T) {
	errs := Validate(&sample{Name: "ok", Color: "green"})
	assert.Equal(t, "Invalid color", errs["color"])

	assert.Nil(t, Validate(&sample{Name: "ok", Color: "red"}))
}

func TestValidateMax(t *testing.T) {
	errs := Validate(&sample{Name: "toolong"})
	assert.Equal(t, "Value is too long (max: 5)", errs["name"])
}
