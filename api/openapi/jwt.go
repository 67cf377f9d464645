package openapi

import (
	"crypto"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWT 是身分服務簽發的 access token 內容，使用者 ID 放在 subject
type JWT struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ParseAndValidateJWT 驗證 EdDSA 簽章與有效期限並回傳 claims
func ParseAndValidateJWT(tokenString string, publicKey crypto.PublicKey) (*JWT, error) {
	const op = "ParseJWT"
	token, err := jwt.ParseWithClaims(tokenString, &JWT{}, func(token *jwt.Token) (interface{}, error) {
		return publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%s: token is invalid", op)
	}
	claims, ok := token.Claims.(*JWT)
	if !ok {
		return nil, fmt.Errorf("%s: token claims are invalid", op)
	}
	return claims, nil
}

// ParsePublicKey 解析 PEM 格式的 Ed25519 公鑰
func ParsePublicKey(pem []byte) (crypto.PublicKey, error) {
	key, err := jwt.ParseEdPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse ed25519 public key: %w", err)
	}
	return key, nil
}
