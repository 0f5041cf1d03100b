package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/sigimobiliare/sig/core/user"
)

type userRow struct {
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row userRow) toUser() user.User {
	return user.User{
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row,
		"SELECT email, password_hash, created_at, updated_at FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return row.toUser(), nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := userRow{
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO users (email, password_hash, created_at, updated_at)
		VALUES (:email, :password_hash, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrExists
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE email = $3",
		usr.PasswordHash, usr.UpdatedAt, usr.Email)
	if err != nil {
		return user.User{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return user.User{}, err
	}
	if n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
