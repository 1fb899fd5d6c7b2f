// Package auth provides JWT issuance/validation and password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenExpiry matches the session length of the web client.
const DefaultTokenExpiry = 30 * time.Minute

// DefaultLeeway tolerated on expiry checks.
const DefaultLeeway = 30 * time.Second

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrEmptyUserID  = errors.New("user id cannot be empty")
)

// Claims carries the authenticated user id in the subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService signs and validates access tokens with an HMAC secret.
type JWTService struct {
	secret []byte
	expiry time.Duration
	leeway time.Duration
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: DefaultTokenExpiry,
		leeway: DefaultLeeway,
	}
}

// NewJWTServiceWithExpiry creates a service with a custom token lifetime.
func NewJWTServiceWithExpiry(secret string, expiry time.Duration) *JWTService {
	s := NewJWTService(secret)
	s.expiry = expiry
	return s
}

// GenerateToken creates a signed access token for the user.
func (s *JWTService) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses a token and returns the user id from its subject.
func (s *JWTService) ValidateToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.secret, nil
		},
		jwt.WithLeeway(s.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
