package repository

import (
	"context"

	"floreria-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoFlorRepository struct {
	col *mongo.Collection
}

func NewMongoFlorRepository(db *mongo.Database) *MongoFlorRepository {
	return &MongoFlorRepository{col: db.Collection(colFlores)}
}

func (m *MongoFlorRepository) Create(ctx context.Context, f *model.Flor) error {
	return insert(ctx, m.col, f)
}

func (m *MongoFlorRepository) FindByID(ctx context.Context, id string) (*model.Flor, error) {
	return findOne[model.Flor](ctx, m.col, bson.M{"_id": id})
}

func (m *MongoFlorRepository) Find(ctx context.Context, f FlorFilter) ([]*model.Flor, error) {
	q := bson.M{}
	if f.Temporada != "" {
		q["temporada"] = f.Temporada
	}
	if f.Disponible != nil {
		q["disponible"] = *f.Disponible
	}
	return findAll[model.Flor](ctx, m.col, q, options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
}

func (m *MongoFlorRepository) Update(ctx context.Context, f *model.Flor) error {
	return replaceByID(ctx, m.col, f.ID, f)
}

func (m *MongoFlorRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, m.col, id)
}
