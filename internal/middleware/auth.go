package middleware

import (
	"net/http"
	"strings"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ClaimsKey = "claims"

// JWTClaims carries the operator identity inside every access token.
// Papel drives RequireRole; Nome is the display name stamped on ledger
// entries.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Nome     string `json:"nome"`
	Papel    string `json:"papel"`
	jwt.RegisteredClaims
}

// JWTAuth rejects any request without a valid HMAC-signed Bearer token.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido ou expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole allows only the listed papéis past. Must run after JWTAuth.
func RequireRole(papeis ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(papeis))
	for _, p := range papeis {
		allowed[p] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed[claims.Papel] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permissões insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims returns the typed claims set by JWTAuth, or nil on public routes.
func GetClaims(c *gin.Context) *JWTClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// Operador returns the display name the core stamps on ledger entries.
// Falls back to the username when the token carries no display name.
func Operador(c *gin.Context) string {
	claims := GetClaims(c)
	if claims == nil {
		return ""
	}
	if claims.Nome != "" {
		return claims.Nome
	}
	return claims.Username
}
