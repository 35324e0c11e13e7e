package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) Issue(p Principal) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"role": string(p.Role),
		"jti":  uuid.NewString(),
		"exp":  now.Add(i.ttl).Unix(),
		"iat":  now.Unix(),
	}
	if p.BusinessID != 0 {
		claims["business_id"] = p.BusinessID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Parse(tokenString string) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return Principal{}, ErrInvalidToken
	}
	roleName, _ := claims["role"].(string)
	role, ok := ParseRole(roleName)
	if !ok {
		return Principal{}, ErrInvalidToken
	}

	p := Principal{ID: uint(sub), Role: role}
	p.TokenID, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		p.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if bid, ok := claims["business_id"].(float64); ok {
		p.BusinessID = uint(bid)
	}
	if role == RoleStaff && p.BusinessID == 0 {
		return Principal{}, ErrInvalidToken
	}

	return p, nil
}
