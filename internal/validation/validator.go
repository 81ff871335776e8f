// Package validation содержит правила проверки заявок с контактной формы.
package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ramzaiplumbing/site/internal/models"
)

// notSpaceOrAt любой символ, кроме @ и пробельных символов в понимании браузера
// (включая \v, неразрывный пробел и прочие пробелы Unicode).
const notSpaceOrAt = `[^@\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`

var (
	emailShape = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)
	phoneAU    = regexp.MustCompile(`^(\+?61|0)[2-478](?:[ -]?[0-9]){8}$`)
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidPhone  = errors.New("invalid australian phone number")
)

// New возвращает валидатор с зарегистрированными тегами email_shape и phone_au.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_au", func(fl validator.FieldLevel) bool {
		return IsPhoneAU(fl.Field().String())
	})
	return v
}

// IsEmail проверяет форму local@domain.tld.
func IsEmail(s string) bool {
	return emailShape.MatchString(s)
}

// IsPhoneAU проверяет австралийский мобильный или городской номер. Пробелы игнорируются.
func IsPhoneAU(s string) bool {
	return phoneAU.MatchString(strings.Join(strings.Fields(s), ""))
}

// CheckSubmission выполняет серверную проверку заявки.
// Отсутствие обязательных полей проверяется раньше формата email.
func CheckSubmission(v *validator.Validate, s models.Submission) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "email_shape" {
			return ErrInvalidEmail
		}
	}
	return err
}

// CheckForm повторяет проверки формы на стороне клиента: серверные правила плюс телефон.
func CheckForm(v *validator.Validate, s models.Submission) error {
	if err := CheckSubmission(v, s); err != nil {
		return err
	}
	if err := v.Var(s.Phone, "phone_au"); err != nil {
		return ErrInvalidPhone
	}
	return nil
}
