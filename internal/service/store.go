package service

import (
	"context"

	"floreria-service/internal/model"
	"floreria-service/internal/repository"
	"floreria-service/internal/repository/memory"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
)

// Interfaces que deben implementar los repositorios (Mongo o memoria).

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id string) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	Find(ctx context.Context, f repository.UsuarioFilter) ([]*model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ArregloRepository interface {
	Create(ctx context.Context, a *model.Arreglo) error
	FindByID(ctx context.Context, id string) (*model.Arreglo, error)
	Find(ctx context.Context, f repository.ArregloFilter) ([]*model.Arreglo, error)
	Update(ctx context.Context, a *model.Arreglo) error
	UpdateCosto(ctx context.Context, id string, costo decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	CountByTipo(ctx context.Context, tipoID string) (int64, error)
}

type TipoArregloRepository interface {
	Create(ctx context.Context, t *model.TipoArreglo) error
	FindByID(ctx context.Context, id string) (*model.TipoArreglo, error)
	Find(ctx context.Context, soloActivos bool) ([]*model.TipoArreglo, error)
	Update(ctx context.Context, t *model.TipoArreglo) error
	Delete(ctx context.Context, id string) error
}

type FlorRepository interface {
	Create(ctx context.Context, f *model.Flor) error
	FindByID(ctx context.Context, id string) (*model.Flor, error)
	Find(ctx context.Context, f repository.FlorFilter) ([]*model.Flor, error)
	Update(ctx context.Context, f *model.Flor) error
	Delete(ctx context.Context, id string) error
}

type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByID(ctx context.Context, id string) (*model.Pedido, error)
	Find(ctx context.Context, f repository.PedidoFilter) ([]*model.Pedido, error)
	Count(ctx context.Context, f repository.PedidoFilter) (int64, error)
	Update(ctx context.Context, id string, c model.PedidoCambios, registro *model.RegistroEstado) error
}

type StockRepository interface {
	Create(ctx context.Context, s *model.Stock) error
	FindByID(ctx context.Context, id string) (*model.Stock, error)
	Find(ctx context.Context, f repository.StockFilter) ([]*model.Stock, error)
	Count(ctx context.Context, f repository.StockFilter) (int64, error)
	Update(ctx context.Context, s *model.Stock) error
	MarcarVendido(ctx context.Context, id string, v model.Venta) error
	Delete(ctx context.Context, id string) error
}

type NotificacionRepository interface {
	Create(ctx context.Context, n *model.Notificacion) error
	FindByID(ctx context.Context, id string) (*model.Notificacion, error)
	FindByUsuario(ctx context.Context, usuarioID string, limit int64) ([]*model.Notificacion, error)
	MarcarLeida(ctx context.Context, id string) error
	MarcarTodasLeidas(ctx context.Context, usuarioID string) (int64, error)
	CountNoLeidas(ctx context.Context, usuarioID string) (int64, error)
}

type ConfiguracionRepository interface {
	Upsert(ctx context.Context, c *model.Configuracion) error
	FindByClave(ctx context.Context, clave string) (*model.Configuracion, error)
	FindAll(ctx context.Context, claves ...string) ([]*model.Configuracion, error)
	Delete(ctx context.Context, clave string) error
}

// Store agrupa los repositorios. Se construye una vez en main y se inyecta a cada servicio.
type Store struct {
	Usuarios       UsuarioRepository
	Arreglos       ArregloRepository
	Tipos          TipoArregloRepository
	Flores         FlorRepository
	Pedidos        PedidoRepository
	Stock          StockRepository
	Notificaciones NotificacionRepository
	Configuracion  ConfiguracionRepository
}

// MemoryStore adapta los repositorios en memoria al Store de servicios.
func MemoryStore(m *memory.Store) *Store {
	return &Store{
		Usuarios:       m.Usuarios,
		Arreglos:       m.Arreglos,
		Tipos:          m.Tipos,
		Flores:         m.Flores,
		Pedidos:        m.Pedidos,
		Stock:          m.Stock,
		Notificaciones: m.Notificaciones,
		Configuracion:  m.Configuracion,
	}
}

// MongoStore arma el Store sobre una base Mongo.
func MongoStore(db *mongo.Database) *Store {
	return &Store{
		Usuarios:       repository.NewMongoUsuarioRepository(db),
		Arreglos:       repository.NewMongoArregloRepository(db),
		Tipos:          repository.NewMongoTipoArregloRepository(db),
		Flores:         repository.NewMongoFlorRepository(db),
		Pedidos:        repository.NewMongoPedidoRepository(db),
		Stock:          repository.NewMongoStockRepository(db),
		Notificaciones: repository.NewMongoNotificacionRepository(db),
		Configuracion:  repository.NewMongoConfiguracionRepository(db),
	}
}
