package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrInvalidInput       = errors.New("invalid input parameters")
)

type UserRepo interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	EnsureUser(ctx context.Context, username, password, role string) error
}

type sqlUserRepo struct {
	db Querier
}

func NewUserRepo(db Querier) UserRepo {
	return &sqlUserRepo{db: db}
}

func (r *sqlUserRepo) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := r.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (r *sqlUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	row := r.db.QueryRowContext(ctx, "SELECT id, username, password, role FROM users WHERE username = $1;", username)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *sqlUserRepo) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if userID <= 0 || oldPassword == "" || newPassword == "" {
		return ErrInvalidInput
	}

	var hashed string
	if err := r.db.QueryRowContext(ctx, "SELECT password FROM users WHERE id = $1;", userID).Scan(&hashed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load password: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	newHashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET password = $1 WHERE id = $2;", string(newHashed), userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// EnsureUser creates the user unless the username is already taken.
func (r *sqlUserRepo) EnsureUser(ctx context.Context, username, password, role string) error {
	if username == "" || password == "" {
		return ErrInvalidInput
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO users (username, password, role) VALUES ($1, $2, $3) ON CONFLICT (username) DO NOTHING;",
		username, string(hashed), role,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
