package security

import (
	"strings"
	"time"

	"securevote/contexts/identity-access/voter-service/domain/entities"
	domainerrors "securevote/contexts/identity-access/voter-service/domain/errors"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 24 * time.Hour

// JWTManager issues HS256 admin session tokens carrying the admin id,
// username, and role.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *JWTManager) Issue(admin entities.Admin) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"adminId":  admin.AdminID,
		"username": admin.Username,
		"role":     admin.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenLifetime).Unix(),
	})
	return token.SignedString(m.secret)
}

func (m *JWTManager) Parse(raw string) (entities.AdminClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entities.AdminClaims{}, domainerrors.ErrInvalidToken
	}
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domainerrors.ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return entities.AdminClaims{}, domainerrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entities.AdminClaims{}, domainerrors.ErrInvalidToken
	}
	adminID, _ := claims["adminId"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if adminID == "" || role == "" {
		return entities.AdminClaims{}, domainerrors.ErrInvalidToken
	}
	return entities.AdminClaims{
		AdminID:  adminID,
		Username: username,
		Role:     role,
	}, nil
}
