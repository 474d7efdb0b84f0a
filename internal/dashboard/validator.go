package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// ErrFormRejected is returned when a submission cannot be accepted and no dialog can ask again.
var ErrFormRejected = errors.New("form rejected")

type formValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newFormValidator() (*formValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &formValidator{
		validate:   validate,
		translator: trans,
	}, nil
}

// check returns the translated messages of every failed rule, joined into one line.
func (v *formValidator) check(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, e.Translate(v.translator))
	}
	return errors.New(strings.Join(messages, ", "))
}
