package repository

import (
	"context"

	"floreria-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoStockRepository struct {
	col *mongo.Collection
}

func NewMongoStockRepository(db *mongo.Database) *MongoStockRepository {
	return &MongoStockRepository{col: db.Collection(colStock)}
}

func (m *MongoStockRepository) Create(ctx context.Context, s *model.Stock) error {
	return insert(ctx, m.col, s)
}

func (m *MongoStockRepository) FindByID(ctx context.Context, id string) (*model.Stock, error) {
	return findOne[model.Stock](ctx, m.col, bson.M{"_id": id})
}

func (m *MongoStockRepository) Find(ctx context.Context, f StockFilter) ([]*model.Stock, error) {
	return findAll[model.Stock](ctx, m.col, stockQuery(f), newestFirst())
}

func (m *MongoStockRepository) Count(ctx context.Context, f StockFilter) (int64, error) {
	return m.col.CountDocuments(ctx, stockQuery(f))
}

func (m *MongoStockRepository) Update(ctx context.Context, s *model.Stock) error {
	return replaceByID(ctx, m.col, s.ID, s)
}

// MarcarVendido solo prospera si la unidad sigue DISPONIBLE; si otra venta ganó
// la carrera devuelve ErrConflict.
func (m *MongoStockRepository) MarcarVendido(ctx context.Context, id string, v model.Venta) error {
	set := bson.M{
		"estado":         model.StockVendido,
		"vendido_por_id": v.VendidoPorID,
		"metodo_pago":    v.MetodoPago,
		"fecha_venta":    v.Fecha,
		"notas":          v.Notas,
		"updated_at":     now(),
	}
	if v.ComprobantePago != "" {
		set["comprobante_pago"] = v.ComprobantePago
	}
	res, err := m.col.UpdateOne(ctx,
		bson.M{"_id": id, "estado": model.StockDisponible},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := m.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (m *MongoStockRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, m.col, id)
}

func stockQuery(f StockFilter) bson.M {
	q := bson.M{}
	if f.Estado != "" {
		q["estado"] = f.Estado
	}
	if f.ArregloID != "" {
		q["arreglo_id"] = f.ArregloID
	}
	if f.VendidoDesde != nil {
		q["fecha_venta"] = bson.M{"$gte": *f.VendidoDesde}
	}
	return q
}
