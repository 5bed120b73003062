package auth

import (
	"context"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/users"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// TokenExpiry is how long issued tokens are valid.
const TokenExpiry = 7 * 24 * time.Hour

// JWTClaims represents the claims in an issued token.
type JWTClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service handles token issuance and credential checks.
type Service struct {
	userService *users.Service
	jwtSecret   []byte
}

func NewService(db *bun.DB, jwtSecret string) *Service {
	return &Service{
		userService: users.NewService(db),
		jwtSecret:   []byte(jwtSecret),
	}
}

// Authenticate validates credentials and returns the user if valid.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	user, err := svc.userService.RetrieveUserByUsername(ctx, username)
	if err != nil {
		return nil, errcodes.Unauthorized("Invalid username or password")
	}

	if !users.CheckPassword(password, user.PasswordHash) {
		return nil, errcodes.Unauthorized("Invalid username or password")
	}

	return user, nil
}

// GenerateToken creates a new signed token for the user.
func (svc *Service) GenerateToken(user *users.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(svc.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken validates a token and returns its claims.
func (svc *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return svc.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetUserByID loads the user a token refers to.
func (svc *Service) GetUserByID(ctx context.Context, id int) (*users.User, error) {
	return svc.userService.RetrieveUser(ctx, id)
}
