// Package validation provides input validation utilities
package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"devconnector/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Password length bounds. bcrypt ignores bytes past 72.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// Checker accumulates field failures in the order they were checked.
type Checker struct {
	errs []models.FieldError
}

// New returns an empty Checker.
func New() *Checker {
	return &Checker{}
}

func (c *Checker) add(param, msg string) {
	c.errs = append(c.errs, models.FieldError{Msg: msg, Param: param})
}

// Required fails when value is blank.
func (c *Checker) Required(param, value, msg string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.add(param, msg)
	}
	return c
}

// Email fails when value is not an email address.
func (c *Checker) Email(param, value, msg string) *Checker {
	if !IsEmail(value) {
		c.add(param, msg)
	}
	return c
}

// MinLength fails when value has fewer than n characters.
func (c *Checker) MinLength(param, value string, n int, msg string) *Checker {
	if utf8.RuneCountInString(value) < n {
		c.add(param, msg)
	}
	return c
}

// MaxBytes fails when value is longer than n bytes.
func (c *Checker) MaxBytes(param, value string, n int, msg string) *Checker {
	if len(value) > n {
		c.add(param, msg)
	}
	return c
}

// URL fails when a non-empty value is not an absolute http(s) URL.
func (c *Checker) URL(param, value, msg string) *Checker {
	if value != "" && !IsURL(value) {
		c.add(param, msg)
	}
	return c
}

// Check fails with msg when ok is false.
func (c *Checker) Check(ok bool, param, msg string) *Checker {
	if !ok {
		c.add(param, msg)
	}
	return c
}

// Err returns the accumulated failures as a validation error, or nil.
func (c *Checker) Err() error {
	if appErr := models.NewFieldValidationError(c.errs); appErr != nil {
		return appErr
	}
	return nil
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
