package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/linkboard/internal/reminder"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("permission", isPermission); err != nil {
		return nil, nil, fmt.Errorf("failed to register permission validation: %w", err)
	}
	if err := validate.RegisterTranslation("permission", trans, func(ut ut.Translator) error {
		return ut.Add("permission", "{0} must be one of default, granted or denied", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("permission", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register permission translation: %w", err)
	}

	return validate, trans, nil
}

func isPermission(fl validator.FieldLevel) bool {
	switch reminder.Permission(fl.Field().String()) {
	case reminder.PermissionDefault, reminder.PermissionGranted, reminder.PermissionDenied:
		return true
	}
	return false
}
