// Package memory implementa los repositorios en memoria. Se usa en tests y con
// STORE_DRIVER=memory para desarrollo local.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"floreria-service/internal/model"
	"floreria-service/internal/repository"

	"github.com/shopspring/decimal"
)

// table es un mapa protegido por mutex que devuelve copias para evitar aliasing.
type table[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{items: make(map[string]T)}
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (t *table[T]) put(id string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[id] = v
}

func (t *table[T]) insert(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[id]; ok {
		return repository.ErrDuplicate
	}
	t.items[id] = v
	return nil
}

func (t *table[T]) replace(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[id]; !ok {
		return repository.ErrNotFound
	}
	t.items[id] = v
	return nil
}

func (t *table[T]) delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.items, id)
	return nil
}

func (t *table[T]) filter(keep func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*T, 0)
	for _, v := range t.items {
		v := v
		if keep(&v) {
			out = append(out, &v)
		}
	}
	return out
}

func newestFirst[T any](items []*T, createdAt func(*T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

// ---- usuarios

type UsuarioRepository struct{ t *table[model.Usuario] }

func NewUsuarioRepository() *UsuarioRepository {
	return &UsuarioRepository{t: newTable[model.Usuario]()}
}

func (r *UsuarioRepository) Create(_ context.Context, u *model.Usuario) error {
	if existing, _ := r.FindByEmail(context.Background(), u.Email); existing != nil {
		return repository.ErrDuplicate
	}
	return r.t.insert(u.ID, *u)
}

func (r *UsuarioRepository) FindByID(_ context.Context, id string) (*model.Usuario, error) {
	return r.t.get(id)
}

func (r *UsuarioRepository) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	res := r.t.filter(func(u *model.Usuario) bool { return strings.EqualFold(u.Email, email) })
	if len(res) == 0 {
		return nil, repository.ErrNotFound
	}
	return res[0], nil
}

func (r *UsuarioRepository) Find(_ context.Context, f repository.UsuarioFilter) ([]*model.Usuario, error) {
	res := r.t.filter(func(u *model.Usuario) bool {
		if f.Rol != "" && u.Rol != f.Rol {
			return false
		}
		return f.Activo == nil || u.Activo == *f.Activo
	})
	if f.PorNombre {
		sort.SliceStable(res, func(i, j int) bool { return res[i].Nombre < res[j].Nombre })
	} else {
		newestFirst(res, func(u *model.Usuario) time.Time { return u.CreatedAt })
	}
	return res, nil
}

func (r *UsuarioRepository) Update(_ context.Context, u *model.Usuario) error {
	dup := r.t.filter(func(o *model.Usuario) bool { return o.ID != u.ID && strings.EqualFold(o.Email, u.Email) })
	if len(dup) > 0 {
		return repository.ErrDuplicate
	}
	return r.t.replace(u.ID, *u)
}

func (r *UsuarioRepository) Delete(_ context.Context, id string) error { return r.t.delete(id) }

func (r *UsuarioRepository) Count(_ context.Context) (int64, error) {
	return int64(len(r.t.filter(func(*model.Usuario) bool { return true }))), nil
}

// ---- arreglos

type ArregloRepository struct{ t *table[model.Arreglo] }

func NewArregloRepository() *ArregloRepository {
	return &ArregloRepository{t: newTable[model.Arreglo]()}
}

func (r *ArregloRepository) Create(_ context.Context, a *model.Arreglo) error {
	a.ImagenesAdicionales = slices.Clone(a.ImagenesAdicionales)
	return r.t.insert(a.ID, *a)
}

func (r *ArregloRepository) FindByID(_ context.Context, id string) (*model.Arreglo, error) {
	return r.t.get(id)
}

func (r *ArregloRepository) Find(_ context.Context, f repository.ArregloFilter) ([]*model.Arreglo, error) {
	res := r.t.filter(func(a *model.Arreglo) bool {
		if f.Disponible != nil && a.Disponible != *f.Disponible {
			return false
		}
		return f.TipoID == "" || a.TipoID == f.TipoID
	})
	newestFirst(res, func(a *model.Arreglo) time.Time { return a.CreatedAt })
	return res, nil
}

func (r *ArregloRepository) Update(_ context.Context, a *model.Arreglo) error {
	cp := *a
	cp.ImagenesAdicionales = slices.Clone(a.ImagenesAdicionales)
	return r.t.replace(a.ID, cp)
}

func (r *ArregloRepository) UpdateCosto(_ context.Context, id string, costo decimal.Decimal) error {
	a, err := r.t.get(id)
	if err != nil {
		return err
	}
	a.Costo = costo
	a.UpdatedAt = time.Now().UTC()
	r.t.put(id, *a)
	return nil
}

func (r *ArregloRepository) Delete(_ context.Context, id string) error { return r.t.delete(id) }

func (r *ArregloRepository) CountByTipo(_ context.Context, tipoID string) (int64, error) {
	return int64(len(r.t.filter(func(a *model.Arreglo) bool { return a.TipoID == tipoID }))), nil
}

// ---- tipos de arreglo

type TipoArregloRepository struct{ t *table[model.TipoArreglo] }

func NewTipoArregloRepository() *TipoArregloRepository {
	return &TipoArregloRepository{t: newTable[model.TipoArreglo]()}
}

func (r *TipoArregloRepository) nombreOcupado(id, nombre string) bool {
	return len(r.t.filter(func(t *model.TipoArreglo) bool { return t.ID != id && t.Nombre == nombre })) > 0
}

func (r *TipoArregloRepository) Create(_ context.Context, t *model.TipoArreglo) error {
	if r.nombreOcupado(t.ID, t.Nombre) {
		return repository.ErrDuplicate
	}
	return r.t.insert(t.ID, *t)
}

func (r *TipoArregloRepository) FindByID(_ context.Context, id string) (*model.TipoArreglo, error) {
	return r.t.get(id)
}

func (r *TipoArregloRepository) Find(_ context.Context, soloActivos bool) ([]*model.TipoArreglo, error) {
	res := r.t.filter(func(t *model.TipoArreglo) bool { return !soloActivos || t.Activo })
	sort.SliceStable(res, func(i, j int) bool { return res[i].Nombre < res[j].Nombre })
	return res, nil
}

func (r *TipoArregloRepository) Update(_ context.Context, t *model.TipoArreglo) error {
	if r.nombreOcupado(t.ID, t.Nombre) {
		return repository.ErrDuplicate
	}
	return r.t.replace(t.ID, *t)
}

func (r *TipoArregloRepository) Delete(_ context.Context, id string) error { return r.t.delete(id) }

// ---- flores

type FlorRepository struct{ t *table[model.Flor] }

func NewFlorRepository() *FlorRepository {
	return &FlorRepository{t: newTable[model.Flor]()}
}

func (r *FlorRepository) Create(_ context.Context, f *model.Flor) error { return r.t.insert(f.ID, *f) }

func (r *FlorRepository) FindByID(_ context.Context, id string) (*model.Flor, error) {
	return r.t.get(id)
}

func (r *FlorRepository) Find(_ context.Context, f repository.FlorFilter) ([]*model.Flor, error) {
	res := r.t.filter(func(fl *model.Flor) bool {
		if f.Temporada != "" && fl.Temporada != f.Temporada {
			return false
		}
		return f.Disponible == nil || fl.Disponible == *f.Disponible
	})
	sort.SliceStable(res, func(i, j int) bool { return res[i].Nombre < res[j].Nombre })
	return res, nil
}

func (r *FlorRepository) Update(_ context.Context, f *model.Flor) error { return r.t.replace(f.ID, *f) }

func (r *FlorRepository) Delete(_ context.Context, id string) error { return r.t.delete(id) }

// ---- pedidos

type PedidoRepository struct {
	mu sync.Mutex // serializa Update para que estado e historial cambien juntos
	t  *table[model.Pedido]
}

func NewPedidoRepository() *PedidoRepository {
	return &PedidoRepository{t: newTable[model.Pedido]()}
}

func clonePedido(p model.Pedido) model.Pedido {
	p.HistorialEstado = slices.Clone(p.HistorialEstado)
	p.ComprobantesExtras = slices.Clone(p.ComprobantesExtras)
	return p
}

func (r *PedidoRepository) Create(_ context.Context, p *model.Pedido) error {
	return r.t.insert(p.ID, clonePedido(*p))
}

func (r *PedidoRepository) FindByID(_ context.Context, id string) (*model.Pedido, error) {
	p, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	cp := clonePedido(*p)
	return &cp, nil
}

func matchPedido(f repository.PedidoFilter, p *model.Pedido) bool {
	if f.ClienteID != "" && p.ClienteID != f.ClienteID {
		return false
	}
	if f.EmpleadoID != "" && p.EmpleadoID != f.EmpleadoID {
		return false
	}
	if f.ArregloID != "" && p.ArregloID != f.ArregloID {
		return false
	}
	if len(f.Estados) > 0 && !slices.Contains(f.Estados, p.Estado) {
		return false
	}
	if f.EntregaDesde != nil && p.HoraEntrega.Before(*f.EntregaDesde) {
		return false
	}
	if f.EntregaHasta != nil && p.HoraEntrega.After(*f.EntregaHasta) {
		return false
	}
	return true
}

func (r *PedidoRepository) Find(_ context.Context, f repository.PedidoFilter) ([]*model.Pedido, error) {
	res := r.t.filter(func(p *model.Pedido) bool { return matchPedido(f, p) })
	for i, p := range res {
		cp := clonePedido(*p)
		res[i] = &cp
	}
	newestFirst(res, func(p *model.Pedido) time.Time { return p.CreatedAt })
	return res, nil
}

func (r *PedidoRepository) Count(_ context.Context, f repository.PedidoFilter) (int64, error) {
	return int64(len(r.t.filter(func(p *model.Pedido) bool { return matchPedido(f, p) }))), nil
}

func (r *PedidoRepository) Update(_ context.Context, id string, c model.PedidoCambios, registro *model.RegistroEstado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, err := r.t.get(id)
	if err != nil {
		return err
	}
	cp := clonePedido(*p)
	cp.Aplicar(c, registro, time.Now().UTC())
	r.t.put(id, cp)
	return nil
}

// ---- stock

type StockRepository struct {
	mu sync.Mutex
	t  *table[model.Stock]
}

func NewStockRepository() *StockRepository {
	return &StockRepository{t: newTable[model.Stock]()}
}

func matchStock(f repository.StockFilter, s *model.Stock) bool {
	if f.Estado != "" && s.Estado != f.Estado {
		return false
	}
	if f.ArregloID != "" && s.ArregloID != f.ArregloID {
		return false
	}
	if f.VendidoDesde != nil && (s.FechaVenta == nil || s.FechaVenta.Before(*f.VendidoDesde)) {
		return false
	}
	return true
}

func (r *StockRepository) Create(_ context.Context, s *model.Stock) error {
	return r.t.insert(s.ID, *s)
}

func (r *StockRepository) FindByID(_ context.Context, id string) (*model.Stock, error) {
	return r.t.get(id)
}

func (r *StockRepository) Find(_ context.Context, f repository.StockFilter) ([]*model.Stock, error) {
	res := r.t.filter(func(s *model.Stock) bool { return matchStock(f, s) })
	newestFirst(res, func(s *model.Stock) time.Time { return s.CreatedAt })
	return res, nil
}

func (r *StockRepository) Count(_ context.Context, f repository.StockFilter) (int64, error) {
	return int64(len(r.t.filter(func(s *model.Stock) bool { return matchStock(f, s) }))), nil
}

func (r *StockRepository) Update(_ context.Context, s *model.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.t.replace(s.ID, *s)
}

func (r *StockRepository) MarcarVendido(_ context.Context, id string, v model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.t.get(id)
	if err != nil {
		return err
	}
	if s.Estado != model.StockDisponible {
		return repository.ErrConflict
	}
	fecha := v.Fecha
	s.Estado = model.StockVendido
	s.VendidoPorID = v.VendidoPorID
	s.MetodoPago = v.MetodoPago
	s.Notas = v.Notas
	s.FechaVenta = &fecha
	if v.ComprobantePago != "" {
		s.ComprobantePago = v.ComprobantePago
	}
	s.UpdatedAt = time.Now().UTC()
	r.t.put(id, *s)
	return nil
}

func (r *StockRepository) Delete(_ context.Context, id string) error { return r.t.delete(id) }

// ---- notificaciones

type NotificacionRepository struct{ t *table[model.Notificacion] }

func NewNotificacionRepository() *NotificacionRepository {
	return &NotificacionRepository{t: newTable[model.Notificacion]()}
}

func (r *NotificacionRepository) Create(_ context.Context, n *model.Notificacion) error {
	return r.t.insert(n.ID, *n)
}

func (r *NotificacionRepository) FindByID(_ context.Context, id string) (*model.Notificacion, error) {
	return r.t.get(id)
}

func (r *NotificacionRepository) FindByUsuario(_ context.Context, usuarioID string, limit int64) ([]*model.Notificacion, error) {
	res := r.t.filter(func(n *model.Notificacion) bool { return n.UsuarioID == usuarioID })
	newestFirst(res, func(n *model.Notificacion) time.Time { return n.CreatedAt })
	if limit > 0 && int64(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *NotificacionRepository) MarcarLeida(_ context.Context, id string) error {
	n, err := r.t.get(id)
	if err != nil {
		return err
	}
	n.Leida = true
	r.t.put(id, *n)
	return nil
}

func (r *NotificacionRepository) MarcarTodasLeidas(_ context.Context, usuarioID string) (int64, error) {
	pendientes := r.t.filter(func(n *model.Notificacion) bool { return n.UsuarioID == usuarioID && !n.Leida })
	for _, n := range pendientes {
		n.Leida = true
		r.t.put(n.ID, *n)
	}
	return int64(len(pendientes)), nil
}

func (r *NotificacionRepository) CountNoLeidas(_ context.Context, usuarioID string) (int64, error) {
	return int64(len(r.t.filter(func(n *model.Notificacion) bool { return n.UsuarioID == usuarioID && !n.Leida }))), nil
}

// ---- configuración

type ConfiguracionRepository struct {
	mu sync.Mutex
	t  *table[model.Configuracion]
}

func NewConfiguracionRepository() *ConfiguracionRepository {
	return &ConfiguracionRepository{t: newTable[model.Configuracion]()}
}

func (r *ConfiguracionRepository) Upsert(_ context.Context, c *model.Configuracion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	nuevo := *c
	nuevo.UpdatedAt = now
	if prev, err := r.t.get(c.Clave); err == nil {
		nuevo.CreatedAt = prev.CreatedAt
		if nuevo.Descripcion == "" {
			nuevo.Descripcion = prev.Descripcion
		}
	} else {
		nuevo.CreatedAt = now
	}
	r.t.put(c.Clave, nuevo)
	return nil
}

func (r *ConfiguracionRepository) FindByClave(_ context.Context, clave string) (*model.Configuracion, error) {
	return r.t.get(clave)
}

func (r *ConfiguracionRepository) FindAll(_ context.Context, claves ...string) ([]*model.Configuracion, error) {
	res := r.t.filter(func(c *model.Configuracion) bool {
		return len(claves) == 0 || slices.Contains(claves, c.Clave)
	})
	sort.Slice(res, func(i, j int) bool { return res[i].Clave < res[j].Clave })
	return res, nil
}

func (r *ConfiguracionRepository) Delete(_ context.Context, clave string) error {
	return r.t.delete(clave)
}

// Store agrupa todos los repositorios en memoria.
type Store struct {
	Usuarios       *UsuarioRepository
	Arreglos       *ArregloRepository
	Tipos          *TipoArregloRepository
	Flores         *FlorRepository
	Pedidos        *PedidoRepository
	Stock          *StockRepository
	Notificaciones *NotificacionRepository
	Configuracion  *ConfiguracionRepository
}

func NewStore() *Store {
	return &Store{
		Usuarios:       NewUsuarioRepository(),
		Arreglos:       NewArregloRepository(),
		Tipos:          NewTipoArregloRepository(),
		Flores:         NewFlorRepository(),
		Pedidos:        NewPedidoRepository(),
		Stock:          NewStockRepository(),
		Notificaciones: NewNotificacionRepository(),
		Configuracion:  NewConfiguracionRepository(),
	}
}
