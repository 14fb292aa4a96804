package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})
	return v
}

// Verify validates the configuration. Every problem is reported, keyed
// by its dotted config name.
func Verify(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	err := validate.Struct(cfg)
	if err == nil {
		return verifySession(&cfg.Session)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("config: %s: %s", key(fe), problem(fe)))
	}
	if sessErr := verifySession(&cfg.Session); sessErr != nil {
		errs = append(errs, sessErr)
	}
	return errors.Join(errs...)
}

func verifySession(s *SessionSection) error {
	if !s.Memory && s.Dir == "" {
		return errors.New("config: session.dir is required unless session.memory is set")
	}
	return nil
}

// key strips the root struct name from the validator namespace.
func key(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func problem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "http_url":
		return fmt.Sprintf("%q is not an http(s) URL", fe.Value())
	case "oneof":
		return fmt.Sprintf("%v is not one of %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return "must not be negative"
	default:
		return "failed " + fe.Tag()
	}
}
