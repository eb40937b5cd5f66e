package validation

import (
	"fmt"
	"puppet-lab/domain"
	"puppet-lab/errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const MaxTextLength = 4096

var validate = validator.New()

// ValidateSayable checks a payload before it reaches a puppet.
// Errors wrap errors.ErrInvalidPayload.
func ValidateSayable(sayable domain.Sayable) error {
	var err error
	switch s := sayable.(type) {
	case nil:
		return fmt.Errorf("%w: nothing to say", errors.ErrInvalidPayload)
	case domain.Text:
		if strings.TrimSpace(string(s)) == "" {
			return fmt.Errorf("%w: empty text", errors.ErrInvalidPayload)
		}
		err = validate.Var(string(s), fmt.Sprintf("max=%d", MaxTextLength))
	case domain.FileBox:
		err = validate.Struct(s)
	case domain.UrlLink:
		err = validate.Struct(s)
	case domain.ContactCard:
		err = validate.Struct(s)
	case domain.Location:
		err = validate.Struct(s)
	default:
		return fmt.Errorf("%w: unknown sayable %T", errors.ErrInvalidPayload, sayable)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return nil
}

func ValidateQuery(query domain.MessageQuery) error {
	if err := validate.Struct(query); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return nil
}

// Struct validates any struct carrying `validate` tags, such as configuration.
func Struct(s any) error {
	return validate.Struct(s)
}
