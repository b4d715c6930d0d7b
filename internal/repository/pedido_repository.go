package repository

import (
	"context"

	"floreria-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo implementation
type MongoPedidoRepository struct {
	col *mongo.Collection
}

func NewMongoPedidoRepository(db *mongo.Database) *MongoPedidoRepository {
	return &MongoPedidoRepository{col: db.Collection(colPedidos)}
}

func (m *MongoPedidoRepository) Create(ctx context.Context, p *model.Pedido) error {
	return insert(ctx, m.col, p)
}

func (m *MongoPedidoRepository) FindByID(ctx context.Context, id string) (*model.Pedido, error) {
	return findOne[model.Pedido](ctx, m.col, bson.M{"_id": id})
}

func (m *MongoPedidoRepository) Find(ctx context.Context, f PedidoFilter) ([]*model.Pedido, error) {
	return findAll[model.Pedido](ctx, m.col, pedidoQuery(f), newestFirst())
}

func (m *MongoPedidoRepository) Count(ctx context.Context, f PedidoFilter) (int64, error) {
	return m.col.CountDocuments(ctx, pedidoQuery(f))
}

// Update aplica los cambios y, si hay registro, lo agrega al historial en la misma
// operación, de modo que estado e historial nunca quedan desalineados.
func (m *MongoPedidoRepository) Update(ctx context.Context, id string, c model.PedidoCambios, registro *model.RegistroEstado) error {
	set := bson.M{"updated_at": now()}
	if c.Estado != nil {
		set["estado"] = *c.Estado
	}
	if c.EmpleadoID != nil {
		set["empleado_id"] = *c.EmpleadoID
	}
	if c.Extras != nil {
		set["extras"] = *c.Extras
	}
	if c.Notas != nil {
		set["notas"] = *c.Notas
	}
	if c.NotasCliente != nil {
		set["notas_cliente"] = *c.NotasCliente
	}
	if c.Prioridad != nil {
		set["prioridad"] = *c.Prioridad
	}
	if c.TransferenciaVerificada != nil {
		set["transferencia_verificada"] = *c.TransferenciaVerificada
	}
	if c.VerificadaPor != nil {
		set["verificada_por"] = *c.VerificadaPor
	}

	update := bson.M{"$set": set}
	push := bson.M{}
	if registro != nil {
		push["historial_estado"] = registro
	}
	if len(c.ComprobantesExtras) > 0 {
		push["comprobantes_extras"] = bson.M{"$each": c.ComprobantesExtras}
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func pedidoQuery(f PedidoFilter) bson.M {
	q := bson.M{}
	if f.ClienteID != "" {
		q["cliente_id"] = f.ClienteID
	}
	if f.EmpleadoID != "" {
		q["empleado_id"] = f.EmpleadoID
	}
	if f.ArregloID != "" {
		q["arreglo_id"] = f.ArregloID
	}
	if len(f.Estados) == 1 {
		q["estado"] = f.Estados[0]
	} else if len(f.Estados) > 1 {
		q["estado"] = bson.M{"$in": f.Estados}
	}
	if f.EntregaDesde != nil || f.EntregaHasta != nil {
		rango := bson.M{}
		if f.EntregaDesde != nil {
			rango["$gte"] = *f.EntregaDesde
		}
		if f.EntregaHasta != nil {
			rango["$lte"] = *f.EntregaHasta
		}
		q["hora_entrega"] = rango
	}
	return q
}
