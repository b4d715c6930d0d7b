package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstadoStock string

const (
	StockDisponible EstadoStock = "DISPONIBLE"
	StockReservado  EstadoStock = "RESERVADO"
	StockVendido    EstadoStock = "VENDIDO"
)

const MetodoPagoTransferencia = "TRANSFERENCIA"

// Stock es una unidad física de un arreglo, independiente de los pedidos.
type Stock struct {
	ID              string          `bson:"_id" json:"id"`
	ArregloID       string          `bson:"arreglo_id" json:"arregloId"`
	PrecioVenta     decimal.Decimal `bson:"precio_venta" json:"precioVenta"`
	Estado          EstadoStock     `bson:"estado" json:"estado"`
	CreadoPorID     string          `bson:"creado_por_id" json:"creadoPorId"`
	VendidoPorID    string          `bson:"vendido_por_id,omitempty" json:"vendidoPorId,omitempty"`
	MetodoPago      string          `bson:"metodo_pago,omitempty" json:"metodoPago,omitempty"`
	ComprobantePago string          `bson:"comprobante_pago,omitempty" json:"comprobantePago,omitempty"`
	Notas           string          `bson:"notas,omitempty" json:"notas,omitempty"`
	Imagen          string          `bson:"imagen,omitempty" json:"imagen,omitempty"`
	FechaVenta      *time.Time      `bson:"fecha_venta,omitempty" json:"fechaVenta,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updatedAt"`
}

// Venta son los datos que se estampan al vender una unidad.
type Venta struct {
	VendidoPorID    string
	MetodoPago      string
	ComprobantePago string
	Notas           string
	Fecha           time.Time
}

type StockDetalle struct {
	*Stock
	Arreglo    *ArregloDetalle `json:"arreglo,omitempty"`
	CreadoPor  *UsuarioResumen `json:"creadoPor,omitempty"`
	VendidoPor *UsuarioResumen `json:"vendidoPor,omitempty"`
}

type StockStats struct {
	Total                int64           `json:"total"`
	Disponible           int64           `json:"disponible"`
	Vendido              int64           `json:"vendido"`
	Reservado            int64           `json:"reservado"`
	ValorTotalDisponible decimal.Decimal `json:"valorTotalDisponible"`
	TotalVentasMes       decimal.Decimal `json:"totalVentasMes"`
	CantidadVentasMes    int             `json:"cantidadVentasMes"`
}
