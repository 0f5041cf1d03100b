package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Email        string    `json:"email"` // normalized, unique
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := HashPassword(pwd)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	if !VerifyPassword(pwd, u.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// NormalizeEmail is the key users are stored under.
func NormalizeEmail(email string) string {
	return core.CleanString(email, true /* lower */)
}

// NewUser contains information needed to sign up.
type NewUser struct {
	Email           string `json:"email" validate:"useremail"`
	Password        string `json:"password" validate:"pwdminlen"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Email = NormalizeEmail(nu.Email)
	return errors.Wrap(validate.Struct(nu), "validating sign up")
}

// Credentials are submitted to log in. AdminKey is only checked when AsAdmin is set.
type Credentials struct {
	Email    string `json:"email" validate:"useremail"`
	Password string `json:"password" validate:"pwdrequired"`
	AsAdmin  bool   `json:"asAdmin"`
	AdminKey string `json:"adminKey"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = NormalizeEmail(c.Email)
	c.AdminKey = core.CleanString(c.AdminKey)
	return errors.Wrap(validate.Struct(c), "validating credentials")
}
