package repository

import (
	"context"

	"floreria-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// La clave es el _id del documento, así la unicidad la da Mongo.
type MongoConfiguracionRepository struct {
	col *mongo.Collection
}

func NewMongoConfiguracionRepository(db *mongo.Database) *MongoConfiguracionRepository {
	return &MongoConfiguracionRepository{col: db.Collection(colConfiguracion)}
}

func (m *MongoConfiguracionRepository) Upsert(ctx context.Context, c *model.Configuracion) error {
	ts := now()
	set := bson.M{
		"valor":      c.Valor,
		"tipo":       c.Tipo,
		"updated_by": c.UpdatedBy,
		"updated_at": ts,
	}
	if c.Descripcion != "" {
		set["descripcion"] = c.Descripcion
	}
	_, err := m.col.UpdateOne(ctx,
		bson.M{"_id": c.Clave},
		bson.M{"$set": set, "$setOnInsert": bson.M{"created_at": ts}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (m *MongoConfiguracionRepository) FindByClave(ctx context.Context, clave string) (*model.Configuracion, error) {
	return findOne[model.Configuracion](ctx, m.col, bson.M{"_id": clave})
}

// FindAll devuelve todas las claves, o solo las pedidas si claves no está vacío.
func (m *MongoConfiguracionRepository) FindAll(ctx context.Context, claves ...string) ([]*model.Configuracion, error) {
	q := bson.M{}
	if len(claves) > 0 {
		q["_id"] = bson.M{"$in": claves}
	}
	return findAll[model.Configuracion](ctx, m.col, q, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (m *MongoConfiguracionRepository) Delete(ctx context.Context, clave string) error {
	return deleteByID(ctx, m.col, clave)
}
