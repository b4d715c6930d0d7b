package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"floreria-service/internal/model"
	"floreria-service/internal/repository/memory"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(t *testing.T) (*service.AuthService, *memory.UsuarioRepository) {
	t.Helper()
	repo := memory.NewUsuarioRepository()
	return service.NewAuthService(repo, nil, "test-secret", time.Hour), repo
}

func crearUsuario(t *testing.T, repo *memory.UsuarioRepository, id string, rol model.Rol, activo bool) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.Usuario{
		ID: id, Email: id + "@flores.com", Nombre: "Ana", Rol: rol, Activo: activo,
	}))
}

func TestAuthenticate(t *testing.T) {
	auth, repo := newAuth(t)
	crearUsuario(t, repo, "u1", model.RolEmpleado, true)
	crearUsuario(t, repo, "u2", model.RolEmpleado, false)

	r := gin.New()
	r.GET("/yo", Authenticate(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(KeyUserID), "rol": c.GetString(KeyUserRol)})
	})

	tokenActivo, err := auth.IssueToken("u1")
	require.NoError(t, err)
	tokenInactivo, err := auth.IssueToken("u2")
	require.NoError(t, err)
	tokenFantasma, err := auth.IssueToken("nadie")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"sin header", "", http.StatusUnauthorized},
		{"sin bearer", tokenActivo, http.StatusUnauthorized},
		{"token basura", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"usuario inactivo", "Bearer " + tokenInactivo, http.StatusUnauthorized},
		{"usuario inexistente", "Bearer " + tokenFantasma, http.StatusUnauthorized},
		{"ok", "Bearer " + tokenActivo, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/yo", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"id":"u1","rol":"EMPLEADO"}`, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth, repo := newAuth(t)
	crearUsuario(t, repo, "cli", model.RolCliente, true)
	crearUsuario(t, repo, "adm", model.RolAdmin, true)

	r := gin.New()
	r.GET("/admin", Authenticate(auth), RequireRole(model.RolAdmin, model.RolGerente), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for id, want := range map[string]int{"cli": http.StatusForbidden, "adm": http.StatusNoContent} {
		token, err := auth.IssueToken(id)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, id)
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/api/x", RateLimit(NewMemoryStore(), RateLimitOptions{
		Prefix: "api", Limit: 2, Window: time.Minute, Message: "Demasiadas solicitudes",
	}, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitSkipSuccessful(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewMemoryStore(), RateLimitOptions{
		Prefix: "auth", Limit: 2, Window: time.Minute, Message: "Demasiados intentos", SkipSuccessful: true,
	}, zap.NewNop()), func(c *gin.Context) {
		if c.Query("ok") == "1" {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusUnauthorized)
	})

	do := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w.Code
	}

	// los exitosos no consumen cupo
	for range 5 {
		assert.Equal(t, http.StatusOK, do("/login?ok=1"))
	}
	assert.Equal(t, http.StatusUnauthorized, do("/login"))
	assert.Equal(t, http.StatusUnauthorized, do("/login"))
	assert.Equal(t, http.StatusTooManyRequests, do("/login"))
}

func TestRateLimitWindowReset(t *testing.T) {
	r := gin.New()
	r.GET("/api/x", RateLimit(NewMemoryStore(), RateLimitOptions{
		Prefix: "api", Limit: 1, Window: 200 * time.Millisecond, Message: "Demasiadas solicitudes",
	}, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
		return w
	}

	require.Equal(t, http.StatusOK, do().Code)
	w := do()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// vencida la ventana el contador vuelve a cero
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, http.StatusOK, do().Code)
}
