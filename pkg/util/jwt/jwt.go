package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessSubject = "access_token"

// jwtConfig 签名配置，由 Init 设置
var jwtConfig = struct {
	Secret            string
	AccessTokenExpiry time.Duration
}{}

// Init 初始化签名密钥和 Access Token 有效期（分钟）
func Init(secret string, accessExpiryMinutes int) {
	jwtConfig.Secret = secret
	jwtConfig.AccessTokenExpiry = time.Duration(accessExpiryMinutes) * time.Minute
}

// Claims 自定义声明，UserID 为十进制用户主键
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken 签发 Access Token
func GenerateAccessToken(userID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "presence_chat",
			Subject:   accessSubject,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}

// ParseAccessToken 解析并校验 Access Token
func ParseAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject != accessSubject {
		return nil, errors.New("not an access token: " + claims.Subject)
	}
	if claims.UserID == 0 {
		return nil, errors.New("token without user id " + strconv.Quote(claims.ID))
	}
	return claims, nil
}
