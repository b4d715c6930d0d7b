// require_role.go
package middleware

import (
	"net/http"
	"slices"

	"floreria-service/internal/model"

	"github.com/gin-gonic/gin"
)

// RequireRole corta con 403 si el rol del usuario no está en la lista.
// Debe ir después de Authenticate.
func RequireRole(roles ...model.Rol) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := Usuario(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autenticado"})
			return
		}
		if !slices.Contains(roles, user.Rol) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tienes permisos para realizar esta acción"})
			return
		}
		c.Next()
	}
}
