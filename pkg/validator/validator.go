package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var bpPattern = regexp.MustCompile(`^\d{2,3}/\d{2,3}$`)

// Validator wraps go-playground struct validation with domain rules.
type Validator struct {
	v *validator.Validate
}

func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterDomainRules(v); err != nil {
		return nil, err
	}
	return &Validator{v: v}, nil
}

// RegisterDomainRules adds the domain validation tags to an existing
// validator instance, such as the one gin binding uses.
func RegisterDomainRules(v *validator.Validate) error {
	// "120/80" style blood pressure text
	if err := v.RegisterValidation("bloodpressure", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || bpPattern.MatchString(s)
	}); err != nil {
		return fmt.Errorf("failed to register bloodpressure rule: %w", err)
	}

	if err := v.RegisterValidation("zone", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "%_")
	}); err != nil {
		return fmt.Errorf("failed to register zone rule: %w", err)
	}

	return nil
}

func (val *Validator) Validate(obj interface{}) error {
	if err := val.v.Struct(obj); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}
