// dto.go
package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Los requests se bindean con ShouldBind: sirven tanto para JSON como para multipart.
// Los montos llegan como json.Number para aceptar número o string en ambos formatos.

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"omitempty,email"`
	Password string `json:"password" form:"password"`
	Nombre   string `json:"nombre" form:"nombre"`
	Apellido string `json:"apellido" form:"apellido"`
	Telefono string `json:"telefono" form:"telefono"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type ProfileRequest struct {
	Nombre    *string `json:"nombre" form:"nombre"`
	Apellido  *string `json:"apellido" form:"apellido"`
	Telefono  *string `json:"telefono" form:"telefono"`
	Direccion *string `json:"direccion" form:"direccion"`
}

type CrearPedidoRequest struct {
	ArregloID     string       `json:"arregloId" form:"arregloId"`
	HoraEntrega   string       `json:"horaEntrega" form:"horaEntrega"`
	ValorAcordado *json.Number `json:"valorAcordado" form:"valorAcordado"`
	Extras        *json.Number `json:"extras" form:"extras"`
	Notas         string       `json:"notas" form:"notas"`
}

type ActualizarPedidoRequest struct {
	Estado                  *string      `json:"estado" form:"estado"`
	EmpleadoID              *string      `json:"empleadoId" form:"empleadoId"`
	Extras                  *json.Number `json:"extras" form:"extras"`
	Notas                   *string      `json:"notas" form:"notas"`
	NotasCliente            *string      `json:"notasCliente" form:"notasCliente"`
	Prioridad               *FlexInt     `json:"prioridad" form:"prioridad"`
	TransferenciaVerificada *FlexBool    `json:"transferenciaVerificada" form:"transferenciaVerificada"`
}

type ListarPedidosQuery struct {
	Estado    string `form:"estado"`
	ClienteID string `form:"clienteId"`
}

type ArregloRequest struct {
	Nombre        *string      `json:"nombre" form:"nombre"`
	Descripcion   *string      `json:"descripcion" form:"descripcion"`
	Costo         *json.Number `json:"costo" form:"costo"`
	Disponible    *bool        `json:"disponible" form:"disponible"`
	TipoID        *string      `json:"tipoId" form:"tipoId"`
	CreadorID     string       `json:"creadorId" form:"creadorId"`
	ImagenEditada string       `json:"imagenEditada" form:"imagenEditada"`
}

type ActualizarPreciosRequest struct {
	Porcentaje      *json.Number `json:"porcentaje" form:"porcentaje"`
	SoloDisponibles bool         `json:"soloDisponibles" form:"soloDisponibles"`
}

type TipoArregloRequest struct {
	Nombre      *string `json:"nombre" form:"nombre"`
	Descripcion *string `json:"descripcion" form:"descripcion"`
	Activo      *bool   `json:"activo" form:"activo"`
}

type FlorRequest struct {
	Nombre      *string      `json:"nombre" form:"nombre"`
	Descripcion *string      `json:"descripcion" form:"descripcion"`
	Temporada   *string      `json:"temporada" form:"temporada"`
	CostoBase   *json.Number `json:"costoBase" form:"costoBase"`
	Disponible  *bool        `json:"disponible" form:"disponible"`
}

type CrearStockRequest struct {
	ArregloID   string       `json:"arregloId" form:"arregloId"`
	Cantidad    int          `json:"cantidad" form:"cantidad"`
	PrecioVenta *json.Number `json:"precioVenta" form:"precioVenta"`
	Notas       string       `json:"notas" form:"notas"`
}

type VenderStockRequest struct {
	MetodoPago string `json:"metodoPago" form:"metodoPago"`
	Notas      string `json:"notas" form:"notas"`
}

type ActualizarStockRequest struct {
	PrecioVenta *json.Number `json:"precioVenta" form:"precioVenta"`
	Estado      *string      `json:"estado" form:"estado"`
	Notas       *string      `json:"notas" form:"notas"`
}

type ConfiguracionRequest struct {
	Clave       string  `json:"clave" form:"clave"`
	Valor       *string `json:"valor" form:"valor"`
	Tipo        string  `json:"tipo" form:"tipo"`
	Descripcion string  `json:"descripcion" form:"descripcion"`
}

type TemaRequest struct {
	Logo            string `json:"logo" form:"logo"`
	ColorPrimario   string `json:"colorPrimario" form:"colorPrimario"`
	ColorSecundario string `json:"colorSecundario" form:"colorSecundario"`
	ColorAcento     string `json:"colorAcento" form:"colorAcento"`
}

type UsuarioRequest struct {
	Email     string  `json:"email" form:"email" binding:"omitempty,email"`
	Password  string  `json:"password" form:"password"`
	Nombre    *string `json:"nombre" form:"nombre"`
	Apellido  *string `json:"apellido" form:"apellido"`
	Rol       *string `json:"rol" form:"rol"`
	Telefono  *string `json:"telefono" form:"telefono"`
	Direccion *string `json:"direccion" form:"direccion"`
	Activo    *bool   `json:"activo" form:"activo"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

// Decimal convierte un monto opcional. Vacío cuenta como no enviado.
func Decimal(n *json.Number) (*decimal.Decimal, error) {
	if n == nil || strings.TrimSpace(n.String()) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(n.String()))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// HoraEntrega acepta RFC3339 o el formato de un input datetime-local (hora local).
func HoraEntrega(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: time.RFC3339, Value: s, Message: ": formato de fecha inválido"}
}

// FlexBool acepta true/false como booleano o como texto. Un texto distinto de "true" es false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*b = FlexBool(x)
	case string:
		*b = x == "true"
	default:
		return fmt.Errorf("valor booleano inválido: %s", data)
	}
	return nil
}

// Ptr devuelve el valor como *bool; nil si no vino.
func (b *FlexBool) Ptr() *bool {
	if b == nil {
		return nil
	}
	v := bool(*b)
	return &v
}

// FlexInt acepta un entero como número o como texto ("3").
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if i, err := strconv.Atoi(s); err == nil {
		*n = FlexInt(i)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("número entero inválido: %s", data)
	}
	*n = FlexInt(int(f))
	return nil
}

func (n *FlexInt) Ptr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}
