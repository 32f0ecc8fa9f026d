package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"cob-tracker/internal/model"
)

// TokenTTL is fixed; there is no refresh flow.
const TokenTTL = 8 * time.Hour

// cost 10 keeps existing hashes comparable
const hashCost = 10

var (
	ErrBadToken = errors.New("invalid token")
	ErrNoSecret = errors.New("signing secret not configured")
)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), hashCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NewAdmin builds an admin principal with a hashed password. The store
// assigns the id.
func NewAdmin(username, password string) (*model.Admin, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &model.Admin{Username: username, PasswordHash: hash, Role: model.RoleAdmin}, nil
}

type Claims struct {
	AdminID string `json:"id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

func MakeToken(id, role, secret string) (string, error) {
	return makeToken(id, role, secret, time.Now())
}

func makeToken(id, role, secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	c := Claims{
		AdminID: id,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func ParseToken(raw, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Join(ErrBadToken, err)
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	return c, nil
}
