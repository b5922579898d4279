package usecase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors errores de validación por campo (nombre JSON -> mensaje).
type FieldErrors map[string]string

// Empty true si no hay errores.
func (f FieldErrors) Empty() bool { return len(f) == 0 }

// Validator valida las entradas de los formularios con mensajes en español.
type Validator struct {
	v *validator.Validate
	// mensajes por "campo" o "campo.tag"; el segundo tiene prioridad.
	mensajes map[string]string
}

// NewValidator construye el validador con los mensajes de los tres recursos.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	// decimal.Decimal se valida como número.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &Validator{v: v, mensajes: map[string]string{
		"lote":             "El lote es requerido",
		"stock_actual":     "El stock actual es requerido y debe ser un número positivo",
		"ubicacion_fisica": "La ubicación física es requerida",
		"nombre":           "El nombre es requerido",
		"tipo":             "El tipo es requerido",
		"tipo.oneof":       "El tipo no es válido",
		"codigo":           "El código es requerido",
		"sigla":            "La sigla es requerida",
		"costo":            "El costo debe ser un número mayor a 0",
		"new_password":     "La contraseña debe tener al menos 8 caracteres.",
		"confirm_password": "Las contraseñas no coinciden.",
	}}
}

// Struct valida s y devuelve los errores por campo; nil si es válido.
func (val *Validator) Struct(s any) FieldErrors {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return FieldErrors{"_": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = val.message(fe)
	}
	return out
}

func (val *Validator) message(fe validator.FieldError) string {
	if m, ok := val.mensajes[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := val.mensajes[fe.Field()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required":
		return "Este campo es requerido"
	case "min":
		return "Debe tener al menos " + fe.Param() + " caracteres"
	case "gt":
		return "Debe ser mayor a " + fe.Param()
	case "gte":
		return "Debe ser mayor o igual a " + fe.Param()
	case "oneof":
		return "Debe ser uno de: " + fe.Param()
	default:
		return "Valor inválido"
	}
}
