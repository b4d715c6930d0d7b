package repository

import (
	"context"

	"floreria-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUsuarioRepository struct {
	col *mongo.Collection
}

func NewMongoUsuarioRepository(db *mongo.Database) *MongoUsuarioRepository {
	return &MongoUsuarioRepository{col: db.Collection(colUsuarios)}
}

// Create devuelve ErrDuplicate si el email ya existe (índice único).
func (m *MongoUsuarioRepository) Create(ctx context.Context, u *model.Usuario) error {
	return insert(ctx, m.col, u)
}

func (m *MongoUsuarioRepository) FindByID(ctx context.Context, id string) (*model.Usuario, error) {
	return findOne[model.Usuario](ctx, m.col, bson.M{"_id": id})
}

func (m *MongoUsuarioRepository) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	return findOne[model.Usuario](ctx, m.col, bson.M{"email": email})
}

func (m *MongoUsuarioRepository) Find(ctx context.Context, f UsuarioFilter) ([]*model.Usuario, error) {
	q := bson.M{}
	if f.Rol != "" {
		q["rol"] = f.Rol
	}
	if f.Activo != nil {
		q["activo"] = *f.Activo
	}
	opts := newestFirst()
	if f.PorNombre {
		opts = options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}})
	}
	return findAll[model.Usuario](ctx, m.col, q, opts)
}

func (m *MongoUsuarioRepository) Update(ctx context.Context, u *model.Usuario) error {
	return replaceByID(ctx, m.col, u.ID, u)
}

func (m *MongoUsuarioRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, m.col, id)
}

func (m *MongoUsuarioRepository) Count(ctx context.Context) (int64, error) {
	return m.col.CountDocuments(ctx, bson.M{})
}
