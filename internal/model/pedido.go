package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Estado string

const (
	EstadoPendiente               Estado = "PENDIENTE"
	EstadoTransferenciaVerificada Estado = "TRANSFERENCIA_VERIFICADA"
	EstadoAsignado                Estado = "ASIGNADO"
	EstadoEnProceso               Estado = "EN_PROCESO"
	EstadoCompletado              Estado = "COMPLETADO"
	EstadoCancelado               Estado = "CANCELADO"
)

// Alias en inglés aceptados en la entrada.
var aliasEstado = map[string]Estado{
	"PENDING":          EstadoPendiente,
	"PAYMENT_VERIFIED": EstadoTransferenciaVerificada,
	"ASSIGNED":         EstadoAsignado,
	"IN_PROGRESS":      EstadoEnProceso,
	"COMPLETED":        EstadoCompletado,
	"CANCELLED":        EstadoCancelado,
}

var estadosValidos = map[Estado]bool{
	EstadoPendiente:               true,
	EstadoTransferenciaVerificada: true,
	EstadoAsignado:                true,
	EstadoEnProceso:               true,
	EstadoCompletado:              true,
	EstadoCancelado:               true,
}

// ParseEstado normaliza el valor recibido al nombre canónico.
func ParseEstado(s string) (Estado, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if e, ok := aliasEstado[s]; ok {
		return e, true
	}
	e := Estado(s)
	return e, estadosValidos[e]
}

type Pedido struct {
	ID                      string           `bson:"_id" json:"id"`
	ClienteID               string           `bson:"cliente_id" json:"clienteId"`
	EmpleadoID              string           `bson:"empleado_id,omitempty" json:"empleadoId,omitempty"`
	ArregloID               string           `bson:"arreglo_id" json:"arregloId"`
	ImagenReferencia        string           `bson:"imagen_referencia,omitempty" json:"imagenReferencia,omitempty"`
	HoraEntrega             time.Time        `bson:"hora_entrega" json:"horaEntrega"`
	ValorAcordado           decimal.Decimal  `bson:"valor_acordado" json:"valorAcordado"`
	PrecioArreglo           decimal.Decimal  `bson:"precio_arreglo" json:"precioArreglo"` // snapshot al crear
	Extras                  decimal.Decimal  `bson:"extras" json:"extras"`
	ComprobantePago         string           `bson:"comprobante_pago,omitempty" json:"comprobantePago,omitempty"`
	ComprobantesExtras      []string         `bson:"comprobantes_extras" json:"comprobantesExtras"`
	Notas                   string           `bson:"notas,omitempty" json:"notas,omitempty"`
	NotasCliente            string           `bson:"notas_cliente,omitempty" json:"notasCliente,omitempty"`
	Estado                  Estado           `bson:"estado" json:"estado"`
	HistorialEstado         []RegistroEstado `bson:"historial_estado" json:"historialEstado"`
	TransferenciaVerificada bool             `bson:"transferencia_verificada" json:"transferenciaVerificada"`
	VerificadaPor           string           `bson:"verificada_por,omitempty" json:"verificadaPor,omitempty"`
	Prioridad               int              `bson:"prioridad" json:"prioridad"`
	CreatedAt               time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt               time.Time        `bson:"updated_at" json:"updatedAt"`
}

// RegistroEstado es una entrada del historial. Solo se agregan, nunca se reescriben.
type RegistroEstado struct {
	Estado  Estado    `bson:"estado" json:"estado"`
	Fecha   time.Time `bson:"fecha" json:"fecha"`
	Usuario string    `bson:"usuario" json:"usuario"`
}

// PedidoCambios describe una actualización parcial; nil significa "no tocar".
type PedidoCambios struct {
	Estado                  *Estado
	EmpleadoID              *string
	Extras                  *decimal.Decimal
	Notas                   *string
	NotasCliente            *string
	Prioridad               *int
	TransferenciaVerificada *bool
	VerificadaPor           *string
	ComprobantesExtras      []string // se agregan al final de la lista existente
}

func (c PedidoCambios) Vacio() bool {
	return c.Estado == nil && c.EmpleadoID == nil && c.Extras == nil && c.Notas == nil &&
		c.NotasCliente == nil && c.Prioridad == nil && c.TransferenciaVerificada == nil &&
		c.VerificadaPor == nil && len(c.ComprobantesExtras) == 0
}

// Aplicar vuelca los cambios sobre una copia en memoria del pedido.
func (p *Pedido) Aplicar(c PedidoCambios, registro *RegistroEstado, ahora time.Time) {
	if c.Estado != nil {
		p.Estado = *c.Estado
	}
	if c.EmpleadoID != nil {
		p.EmpleadoID = *c.EmpleadoID
	}
	if c.Extras != nil {
		p.Extras = *c.Extras
	}
	if c.Notas != nil {
		p.Notas = *c.Notas
	}
	if c.NotasCliente != nil {
		p.NotasCliente = *c.NotasCliente
	}
	if c.Prioridad != nil {
		p.Prioridad = *c.Prioridad
	}
	if c.TransferenciaVerificada != nil {
		p.TransferenciaVerificada = *c.TransferenciaVerificada
	}
	if c.VerificadaPor != nil {
		p.VerificadaPor = *c.VerificadaPor
	}
	p.ComprobantesExtras = append(p.ComprobantesExtras, c.ComprobantesExtras...)
	if registro != nil {
		p.HistorialEstado = append(p.HistorialEstado, *registro)
	}
	p.UpdatedAt = ahora
}

// PedidoDetalle es el pedido con sus relaciones expandidas.
type PedidoDetalle struct {
	*Pedido
	Cliente             *UsuarioResumen `json:"cliente,omitempty"`
	Arreglo             *Arreglo        `json:"arreglo,omitempty"`
	Empleado            *UsuarioResumen `json:"empleado,omitempty"`
	VerificadaPorNombre string          `json:"verificadaPorNombre,omitempty"`
}
