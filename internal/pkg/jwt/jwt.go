package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// 频道凭证作用域
const (
	ScopeVendor = "vendor"
	ScopeOrder  = "order"
)

// Claims 商户登录凭证
type Claims struct {
	VendorID int64 `json:"vendor_id"`
	jwt.RegisteredClaims
}

// ChannelClaims 实时频道准入凭证（短时效）
type ChannelClaims struct {
	Scope string `json:"scope"` // vendor / order
	RefID int64  `json:"ref_id"`
	jwt.RegisteredClaims
}

// GenerateToken 生成商户登录 Token
func GenerateToken(vendorID int64, secret string, expireHours int) (string, error) {
	now := time.Now()
	claims := &Claims{
		VendorID: vendorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken 解析并校验商户登录 Token
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateChannelToken 生成频道准入凭证，join 时出示，服务端校验后才订阅
func GenerateChannelToken(scope string, refID int64, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &ChannelClaims{
		Scope: scope,
		RefID: refID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseChannelToken 解析频道准入凭证
func ParseChannelToken(tokenString, secret string) (*ChannelClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChannelClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ChannelClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
