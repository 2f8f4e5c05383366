package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/perfreview/goalflow/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService issues and verifies the HS256 tokens that identify API callers.
// Sessions and passwords are handled by the identity provider in front of this service.
type AuthService struct {
	jwtSecret []byte
	jwtExpiry time.Duration
}

func NewAuthService(jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
	}
}

func (s *AuthService) GenerateJWT(userID string, role model.Role) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, &ValidationError{Field: "userId", Message: "user is required"}
	}
	if !role.Valid() {
		return "", time.Time{}, &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", role)}
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*model.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !model.Role(role).Valid() {
		return nil, fmt.Errorf("%w: missing user or role claim", ErrInvalidToken)
	}

	return &model.Actor{UserID: userID, Role: model.Role(role)}, nil
}
