package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints and verifies the bearer tokens the profile and
// favorites endpoints run on.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenService(secret, issuer string, ttl time.Duration) TokenService {
	return TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Claims carries exactly what the protected routes need to identify a
// reader: the user id for favorites rows, username and email for
// /users/me.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Token is a signed credential plus its expiry, ready for a login or
// register response body.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

func (ts TokenService) Sign(u *User) (Token, error) {
	now := time.Now()
	exp := now.Add(ts.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(ts.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Parse verifies signature, algorithm, issuer and expiry in one go;
// anything minted by a differently-configured service is rejected.
func (ts TokenService) Parse(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	tok, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return ts.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return &claims, nil
}
