// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"floreria-service/internal/model"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	KeyUsuario  = "usuario"
	KeyUserID   = "userID"
	KeyUserName = "userName"
	KeyUserRol  = "userRol"
)

// Middleware que valida el token y guarda el usuario en el contexto
func Authenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		user, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido o usuario inactivo"})
			return
		}

		c.Set(KeyUsuario, user)
		c.Set(KeyUserID, user.ID)
		c.Set(KeyUserName, user.NombreCompleto())
		c.Set(KeyUserRol, string(user.Rol))
		c.Next()
	}
}

// Usuario devuelve el usuario autenticado, o nil si la ruta no pasó por Authenticate.
func Usuario(c *gin.Context) *model.Usuario {
	v, ok := c.Get(KeyUsuario)
	if !ok {
		return nil
	}
	u, _ := v.(*model.Usuario)
	return u
}
