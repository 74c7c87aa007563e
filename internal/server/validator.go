package server

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormValidator проверяет формы, привязанные через c.Bind. Поля в ошибках
// называются по тегу form, как в HTML.
type FormValidator struct {
	validator *validator.Validate
}

// NewValidator создает валидатор на базе go-playground/validator.
func NewValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(formFieldName)
	return &FormValidator{validator: v}
}

// Validate запускает проверку структуры по тегам.
func (fv *FormValidator) Validate(i interface{}) error {
	return fv.validator.Struct(i)
}

func formFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}
