package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing.
const BcryptCost = 12

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	Email    *string
	Password string
}

// CreateUser creates a new active user with a hashed password.
func (svc *Service) CreateUser(ctx context.Context, opts CreateUserOptions) (*User, error) {
	exists, err := svc.db.NewSelect().
		Model((*User)(nil)).
		Where("username = ? COLLATE NOCASE", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ValidationError("Username already exists")
	}

	hashedPassword, err := HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = svc.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// RetrieveUser gets an active user by ID.
func (svc *Service) RetrieveUser(ctx context.Context, id int) (*User, error) {
	user := &User{}
	err := svc.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Where("u.is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// RetrieveUserByUsername gets an active user by username, case-insensitive.
func (svc *Service) RetrieveUserByUsername(ctx context.Context, username string) (*User, error) {
	user := &User{}
	err := svc.db.NewSelect().
		Model(user).
		Where("u.username = ? COLLATE NOCASE", username).
		Where("u.is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hashedPassword), nil
}

// CheckPassword compares a password with a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
