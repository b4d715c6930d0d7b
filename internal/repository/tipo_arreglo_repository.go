package repository

import (
	"context"

	"floreria-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoTipoArregloRepository struct {
	col *mongo.Collection
}

func NewMongoTipoArregloRepository(db *mongo.Database) *MongoTipoArregloRepository {
	return &MongoTipoArregloRepository{col: db.Collection(colTiposArreglo)}
}

func (m *MongoTipoArregloRepository) Create(ctx context.Context, t *model.TipoArreglo) error {
	return insert(ctx, m.col, t)
}

func (m *MongoTipoArregloRepository) FindByID(ctx context.Context, id string) (*model.TipoArreglo, error) {
	return findOne[model.TipoArreglo](ctx, m.col, bson.M{"_id": id})
}

func (m *MongoTipoArregloRepository) Find(ctx context.Context, soloActivos bool) ([]*model.TipoArreglo, error) {
	q := bson.M{}
	if soloActivos {
		q["activo"] = true
	}
	return findAll[model.TipoArreglo](ctx, m.col, q, options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
}

func (m *MongoTipoArregloRepository) Update(ctx context.Context, t *model.TipoArreglo) error {
	return replaceByID(ctx, m.col, t.ID, t)
}

func (m *MongoTipoArregloRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, m.col, id)
}
