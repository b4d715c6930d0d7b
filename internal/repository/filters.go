package repository

import (
	"time"

	"floreria-service/internal/model"
)

type UsuarioFilter struct {
	Rol    model.Rol
	Activo *bool
	// PorNombre ordena alfabéticamente; por defecto los más nuevos primero.
	PorNombre bool
}

type ArregloFilter struct {
	Disponible *bool
	TipoID     string
}

type FlorFilter struct {
	Temporada  string
	Disponible *bool
}

type PedidoFilter struct {
	ClienteID    string
	EmpleadoID   string
	ArregloID    string
	Estados      []model.Estado
	EntregaDesde *time.Time
	EntregaHasta *time.Time
}

type StockFilter struct {
	Estado       model.EstadoStock
	ArregloID    string
	VendidoDesde *time.Time
}
