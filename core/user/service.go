package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/sigimobiliare/sig/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrExists             = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAdminKeyRequired   = errors.New("admin key required")
	ErrInvalidAdminKey    = errors.New("invalid admin key")
)

type (
	Repository interface {
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// CreateUser fails with ErrExists when the email is taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	ServiceInterface interface {
		SignUp(ctx context.Context, nu NewUser) (User, error)
		// Login checks the credentials and returns the role granted to the session.
		Login(ctx context.Context, creds Credentials) (User, string, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		// AddUser creates the user, or resets its password if it exists.
		AddUser(ctx context.Context, email, pwd string) (User, error)
		SetPassword(ctx context.Context, email, pwd string) (User, error)
	}

	Service struct {
		repo     Repository
		adminKey string
		nowFunc  func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)

// NewService returns the user service. An empty adminKey disables admin logins.
func NewService(repo Repository, adminKey string) *Service {
	return &Service{
		repo:     repo,
		adminKey: adminKey,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func NewServiceFromConfig(repo Repository, conf *core.Config) *Service {
	return NewService(repo, conf.EffectiveAdminKey())
}

func (svc *Service) SignUp(ctx context.Context, nu NewUser) (User, error) {
	now := svc.nowFunc()
	usr := User{
		Email:     NormalizeEmail(nu.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) Login(ctx context.Context, creds Credentials) (User, string, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		return User{}, "", err
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, "", err
	}

	role := RoleUser
	if creds.AsAdmin {
		if creds.AdminKey == "" {
			return User{}, "", ErrAdminKeyRequired
		}
		if svc.adminKey == "" || creds.AdminKey != svc.adminKey {
			return User{}, "", ErrInvalidAdminKey
		}
		role = RoleAdmin
	}
	return usr, role, nil
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, NormalizeEmail(email))
}

func (svc *Service) AddUser(ctx context.Context, email, pwd string) (User, error) {
	email = NormalizeEmail(email)
	if !core.IsEmailLike(email) {
		return User{}, core.NewValidationError(errors.New(emailText), core.FieldError{Field: "email", Error: emailText})
	}
	usr, err := svc.SetPassword(ctx, email, pwd)
	if errors.Cause(err) != ErrNotFound {
		return usr, err
	}
	return svc.SignUp(ctx, NewUser{Email: email, Password: pwd, ConfirmPassword: pwd})
}

func (svc *Service) SetPassword(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = svc.nowFunc()
	return svc.repo.UpdateUser(ctx, usr)
}
