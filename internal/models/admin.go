package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)

type ChangeAdmin struct {
	EmailAddr string `json:"email_addr" validate:"required,email"`
}

func (c *ChangeAdmin) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !emailRegex.MatchString(c.EmailAddr) {
		return errInvalidEmail
	}
	return nil
}

func ValidEmail(addr string) bool {
	return emailRegex.MatchString(addr)
}
