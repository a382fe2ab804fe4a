package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"
)

func oneOf(fl validator.FieldLevel) bool {
	return slices.Contains(strings.Fields(fl.Param()), fl.Field().String())
}

// afterField passes if the time.Time field is strictly after the sibling field named by the tag
// parameter. Zero values are left to the required validator.
func afterField(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() {
		return false
	}
	start, ok := other.Interface().(time.Time)
	if !ok {
		return false
	}
	if value.IsZero() || start.IsZero() {
		return true
	}
	return value.After(start)
}

// RegisterValidation Inspiration: https://blog.logrocket.com/gin-binding-in-go-a-tutorial-with-examples/
func RegisterValidation() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("error getting validation engine")
	}
	if err := v.RegisterValidation("oneOf", oneOf); err != nil {
		return err
	}
	return v.RegisterValidation("afterField", afterField)
}
