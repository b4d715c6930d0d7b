package repository

import (
	"context"

	"floreria-service/internal/model"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoArregloRepository struct {
	col *mongo.Collection
}

func NewMongoArregloRepository(db *mongo.Database) *MongoArregloRepository {
	return &MongoArregloRepository{col: db.Collection(colArreglos)}
}

func (m *MongoArregloRepository) Create(ctx context.Context, a *model.Arreglo) error {
	return insert(ctx, m.col, a)
}

func (m *MongoArregloRepository) FindByID(ctx context.Context, id string) (*model.Arreglo, error) {
	return findOne[model.Arreglo](ctx, m.col, bson.M{"_id": id})
}

func (m *MongoArregloRepository) Find(ctx context.Context, f ArregloFilter) ([]*model.Arreglo, error) {
	q := bson.M{}
	if f.Disponible != nil {
		q["disponible"] = *f.Disponible
	}
	if f.TipoID != "" {
		q["tipo_id"] = f.TipoID
	}
	return findAll[model.Arreglo](ctx, m.col, q, newestFirst())
}

func (m *MongoArregloRepository) Update(ctx context.Context, a *model.Arreglo) error {
	return replaceByID(ctx, m.col, a.ID, a)
}

// UpdateCosto toca solo el costo; lo usa la actualización masiva fila por fila.
func (m *MongoArregloRepository) UpdateCosto(ctx context.Context, id string, costo decimal.Decimal) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"costo": costo, "updated_at": now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoArregloRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, m.col, id)
}

func (m *MongoArregloRepository) CountByTipo(ctx context.Context, tipoID string) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{"tipo_id": tipoID})
}
