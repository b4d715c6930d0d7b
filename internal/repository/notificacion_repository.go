package repository

import (
	"context"

	"floreria-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoNotificacionRepository struct {
	col *mongo.Collection
}

func NewMongoNotificacionRepository(db *mongo.Database) *MongoNotificacionRepository {
	return &MongoNotificacionRepository{col: db.Collection(colNotificaciones)}
}

func (m *MongoNotificacionRepository) Create(ctx context.Context, n *model.Notificacion) error {
	return insert(ctx, m.col, n)
}

func (m *MongoNotificacionRepository) FindByID(ctx context.Context, id string) (*model.Notificacion, error) {
	return findOne[model.Notificacion](ctx, m.col, bson.M{"_id": id})
}

func (m *MongoNotificacionRepository) FindByUsuario(ctx context.Context, usuarioID string, limit int64) ([]*model.Notificacion, error) {
	opts := newestFirst().SetLimit(limit)
	return findAll[model.Notificacion](ctx, m.col, bson.M{"usuario_id": usuarioID}, opts)
}

func (m *MongoNotificacionRepository) MarcarLeida(ctx context.Context, id string) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"leida": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoNotificacionRepository) MarcarTodasLeidas(ctx context.Context, usuarioID string) (int64, error) {
	res, err := m.col.UpdateMany(ctx,
		bson.M{"usuario_id": usuarioID, "leida": false},
		bson.M{"$set": bson.M{"leida": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *MongoNotificacionRepository) CountNoLeidas(ctx context.Context, usuarioID string) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{"usuario_id": usuarioID, "leida": false})
}
