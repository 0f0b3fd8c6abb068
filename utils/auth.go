package utils

import (
	"errors"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JWT Secret Key
var JwtKey = []byte("your_secret_key") // This will be loaded from .env

// LoadJwtKey installs the signing key from the environment. An empty
// JWT_SECRET would sign every token with an empty key, so it is an
// error rather than a silent default.
func LoadJwtKey() error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set in environment variables")
	}
	JwtKey = []byte(secret)
	return nil
}

// ErrTokenExpired distinguishes an expired token from any other
// verification failure; the reset-password flow reports it separately.
var ErrTokenExpired = errors.New("token expired")

// ErrInvalidToken covers every non-expiry verification failure.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// GenerateJWT issues a 24-hour session token for a user.
func GenerateJWT(userID, email string) (string, error) {
	return signToken(userID, email, 24*time.Hour)
}

// GenerateResetToken issues the short-lived token embedded in password
// reset links.
func GenerateResetToken(email string) (string, error) {
	return signToken("", email, time.Hour)
}

func signToken(userID, email string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}

// ParseToken verifies a token and returns its claims. Expiry is mapped
// to ErrTokenExpired, everything else to ErrInvalidToken.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
