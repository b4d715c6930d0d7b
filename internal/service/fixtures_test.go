package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"floreria-service/internal/media"
	"floreria-service/internal/model"
	"floreria-service/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func nuevoStore() *Store {
	return MemoryStore(memory.NewStore())
}

func crearUsuario(t *testing.T, st *Store, rol model.Rol, nombre, apellido string) *model.Usuario {
	t.Helper()
	ahora := time.Now().UTC()
	u := &model.Usuario{
		ID:        uuid.NewString(),
		Email:     uuid.NewString() + "@flores.com",
		Nombre:    nombre,
		Apellido:  apellido,
		Rol:       rol,
		Activo:    true,
		CreatedAt: ahora,
		UpdatedAt: ahora,
	}
	require.NoError(t, st.Usuarios.Create(context.Background(), u))
	return u
}

func crearArreglo(t *testing.T, st *Store, creador *model.Usuario, costo string, disponible bool) *model.Arreglo {
	t.Helper()
	ahora := time.Now().UTC()
	a := &model.Arreglo{
		ID:                  uuid.NewString(),
		Nombre:              "Ramo " + costo,
		Costo:               decimal.RequireFromString(costo),
		Disponible:          disponible,
		CreadorID:           creador.ID,
		ImagenesAdicionales: []string{},
		CreatedAt:           ahora,
		UpdatedAt:           ahora,
	}
	require.NoError(t, st.Arreglos.Create(context.Background(), a))
	return a
}

func ptr[T any](v T) *T { return &v }

// fakeMedia sube "en memoria" y falla para los nombres marcados.
type fakeMedia struct {
	mu     sync.Mutex
	falla  map[string]bool
	subido []string
}

func (f *fakeMedia) Configured() bool { return true }

func (f *fakeMedia) Upload(_ context.Context, a media.Archivo) (string, error) {
	if f.falla[a.Nombre] {
		return "", errors.New("upstream caído")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subido = append(f.subido, a.Nombre)
	return "https://cdn.test/" + a.Nombre, nil
}

func archivo(nombre string) media.Archivo {
	return media.Archivo{Nombre: nombre, ContentType: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}}
}
