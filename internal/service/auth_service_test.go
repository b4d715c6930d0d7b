package service

import (
	"context"
	"testing"
	"time"

	"floreria-service/internal/apperr"
	"floreria-service/internal/media"
	"floreria-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(st *Store) *AuthService {
	return NewAuthService(st.Usuarios, media.Disabled{}, "test-secret", time.Hour)
}

func TestValidarTelefono(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"+57 300 123 4567", true},
		{"+573001234567", true},
		{"+1 5551234", true},
		{"3001234567", false},
		{"+57 300-123-4567", false},
		{"+57 12", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ValidarTelefono(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.Is(err, apperr.KindValidation))
			}
		})
	}
}

func TestAuthRegisterYLogin(t *testing.T) {
	st := nuevoStore()
	auth := newAuth(st)
	ctx := context.Background()

	s, err := auth.Register(ctx, RegistroInput{
		Email:    "  Laura@Mail.com ",
		Password: "secreta",
		Nombre:   "Laura",
		Telefono: "+57 300 123 4567",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "laura@mail.com", s.User.Email)
	assert.Equal(t, model.RolCliente, s.User.Rol)
	assert.NotEqual(t, "secreta", s.User.Password)

	_, err = auth.Register(ctx, RegistroInput{Email: "laura@mail.com", Password: "x", Nombre: "Otra", Telefono: "+57 3001112233"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "email duplicado")

	_, err = auth.Register(ctx, RegistroInput{Email: "b@mail.com", Password: "x", Nombre: "B"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "sin teléfono")

	_, err = auth.Register(ctx, RegistroInput{Email: "b@mail.com", Password: "x", Nombre: "B", Telefono: "300 123"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "teléfono sin código de país")

	login, err := auth.Login(ctx, "LAURA@mail.com", "secreta")
	require.NoError(t, err)
	u, err := auth.ValidateToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, u.ID)

	_, err = auth.Login(ctx, "laura@mail.com", "otra")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	_, err = auth.Login(ctx, "nadie@mail.com", "secreta")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	_, err = auth.Login(ctx, "", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	s.User.Activo = false
	require.NoError(t, st.Usuarios.Update(ctx, s.User))
	_, err = auth.Login(ctx, "laura@mail.com", "secreta")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	_, err = auth.ValidateToken(ctx, login.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "usuario inactivo")
}

func TestAuthValidateToken(t *testing.T) {
	st := nuevoStore()
	auth := newAuth(st)
	ctx := context.Background()
	u := crearUsuario(t, st, model.RolEmpleado, "Eva", "")

	token, err := auth.IssueToken(u.ID)
	require.NoError(t, err)

	otro := NewAuthService(st.Usuarios, media.Disabled{}, "otro-secreto", time.Hour)
	_, err = otro.ValidateToken(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "firma ajena")

	_, err = auth.ValidateToken(ctx, "basura")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.ValidateToken(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "vencido")

	auth.now = time.Now
	huerfano, err := auth.IssueToken("no-existe")
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, huerfano)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestAuthUpdateProfile(t *testing.T) {
	st := nuevoStore()
	auth := newAuth(st)
	ctx := context.Background()
	cliente := crearUsuario(t, st, model.RolCliente, "Carla", "")
	empleado := crearUsuario(t, st, model.RolEmpleado, "Eva", "")

	_, err := auth.UpdateProfile(ctx, cliente.ID, PerfilInput{Nombre: ptr("Carla María")})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "cliente sin teléfono")

	u, err := auth.UpdateProfile(ctx, cliente.ID, PerfilInput{Nombre: ptr("Carla María"), Telefono: ptr("+57 3001234567")})
	require.NoError(t, err)
	assert.Equal(t, "Carla María", u.Nombre)
	assert.Equal(t, "+57 3001234567", u.Telefono)

	u, err = auth.UpdateProfile(ctx, empleado.ID, PerfilInput{Direccion: ptr("Calle 1")})
	require.NoError(t, err)
	assert.Equal(t, "Calle 1", u.Direccion)

	_, err = auth.UpdateProfile(ctx, "no-existe", PerfilInput{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
