package middleware

import (
	"net/http"
	"strings"

	"gescoop/internal/apierror"
	"gescoop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token. Tokens
// issued by the identity gateway carry no user_id; the Identidad middleware
// resolves those to a local user.
type JWTClaims struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Nombre   string  `json:"nombre"`
	Email    *string `json:"email"`
	Rol      string  `json:"rol"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
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
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Identidad resolves externally issued tokens to a local user, provisioning
// one on first contact. Tokens minted by this backend already carry user_id
// and pass through untouched.
func Identidad(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.UserID != "" {
			c.Next()
			return
		}
		ref := claims.Subject
		if ref == "" {
			ref = claims.Username
		}
		user, err := auth.ResolveOrProvision(c.Request.Context(), ref, claims.Nombre, claims.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Identidad no reconocida"))
			return
		}
		claims.UserID = user.ID.String()
		claims.Username = user.Username
		claims.Nombre = user.Nombre
		claims.Rol = user.Rol
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// GetAlcance builds the row-scoping policy for the authenticated user.
func GetAlcance(c *gin.Context) (service.Alcance, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return service.Alcance{}, false
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return service.Alcance{}, false
	}
	return service.Alcance{UsuarioID: uid, Rol: claims.Rol}, true
}
