// models.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Los montos viajan como número en el JSON, no como string.
	decimal.MarshalJSONWithoutQuotes = true
}

type Rol string

const (
	RolCliente  Rol = "CLIENTE"
	RolEmpleado Rol = "EMPLEADO"
	RolGerente  Rol = "GERENTE"
	RolAdmin    Rol = "ADMIN"
)

func (r Rol) Valido() bool {
	switch r {
	case RolCliente, RolEmpleado, RolGerente, RolAdmin:
		return true
	}
	return false
}

// Personal indica si el rol puede crear arreglos o recibir pedidos asignados.
func (r Rol) Personal() bool {
	return r == RolEmpleado || r == RolGerente || r == RolAdmin
}

type Usuario struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"`
	Nombre    string    `bson:"nombre" json:"nombre"`
	Apellido  string    `bson:"apellido,omitempty" json:"apellido,omitempty"`
	Telefono  string    `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Direccion string    `bson:"direccion,omitempty" json:"direccion,omitempty"`
	Imagen    string    `bson:"imagen,omitempty" json:"imagen,omitempty"`
	Rol       Rol       `bson:"rol" json:"rol"`
	Activo    bool      `bson:"activo" json:"activo"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// NombreCompleto es el nombre que queda registrado en el historial de estados.
func (u *Usuario) NombreCompleto() string {
	if u.Apellido == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellido
}

func (u *Usuario) Resumen() *UsuarioResumen {
	if u == nil {
		return nil
	}
	return &UsuarioResumen{
		ID:        u.ID,
		Nombre:    u.Nombre,
		Apellido:  u.Apellido,
		Email:     u.Email,
		Telefono:  u.Telefono,
		Direccion: u.Direccion,
		Rol:       u.Rol,
	}
}

// UsuarioResumen es la vista reducida que se expande dentro de pedidos, stock y arreglos.
type UsuarioResumen struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido,omitempty"`
	Email     string `json:"email,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Rol       Rol    `json:"rol,omitempty"`
}
