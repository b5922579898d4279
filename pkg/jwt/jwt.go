package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims claims mínimos que emite el servicio de autenticación municipal.
// El panel no tiene la clave de firma: solo lee el token, nunca lo valida.
type Claims struct {
	jwt.RegisteredClaims
	CI  string `json:"ci,omitempty"`
	Rol string `json:"rol,omitempty"`
}

// ExpiresAt devuelve el claim "exp" del token sin verificar la firma.
// Retorna error si el token no es un JWT o no trae "exp".
func ExpiresAt(tokenString string) (time.Time, error) {
	var claims Claims
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims)
	if err != nil {
		return time.Time{}, fmt.Errorf("jwt: token no legible: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("jwt: token sin exp")
	}
	return claims.ExpiresAt.Time, nil
}

// Generate firma un token HS256 con ci, rol y expiración. Lo usan los
// backends simulados en tests y herramientas locales.
func Generate(secret, ci, rol, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   ci,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CI:  ci,
		Rol: rol,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
