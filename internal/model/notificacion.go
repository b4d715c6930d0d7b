package model

import "time"

type TipoNotificacion string

const (
	NotifNuevoPedido         TipoNotificacion = "NUEVO_PEDIDO"
	NotifPedidoAsignado      TipoNotificacion = "PEDIDO_ASIGNADO"
	NotifRecordatorioEntrega TipoNotificacion = "RECORDATORIO_ENTREGA"
)

type Notificacion struct {
	ID        string           `bson:"_id" json:"id"`
	UsuarioID string           `bson:"usuario_id" json:"usuarioId"`
	Tipo      TipoNotificacion `bson:"tipo" json:"tipo"`
	Titulo    string           `bson:"titulo" json:"titulo"`
	Mensaje   string           `bson:"mensaje" json:"mensaje"`
	PedidoID  string           `bson:"pedido_id,omitempty" json:"pedidoId,omitempty"`
	Leida     bool             `bson:"leida" json:"leida"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
}

type Configuracion struct {
	Clave       string    `bson:"_id" json:"clave"`
	Valor       string    `bson:"valor" json:"valor"`
	Tipo        string    `bson:"tipo" json:"tipo"`
	Descripcion string    `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	UpdatedBy   string    `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
