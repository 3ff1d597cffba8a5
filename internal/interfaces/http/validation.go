package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validate instancia única del validador; usa los tags `validate` de los DTO y
// reporta los campos con su nombre JSON.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindBody parsea el JSON del body al DTO y aplica sus reglas de validación.
// Con allowEmpty, un body vacío deja el DTO en ceros (endpoints cuyo body es
// opcional).
func bindBody(c *fiber.Ctx, out any, allowEmpty bool) error {
	if len(c.Body()) == 0 {
		if allowEmpty {
			return nil
		}
		return errors.New("cuerpo requerido")
	}
	if err := c.BodyParser(out); err != nil {
		return errors.New("cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("campo %s: regla %s", e.Field(), e.Tag())
		}
		return errors.New("datos inválidos")
	}
	return nil
}
