package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Arreglo struct {
	ID                  string          `bson:"_id" json:"id"`
	Nombre              string          `bson:"nombre" json:"nombre"`
	Descripcion         string          `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Imagen              string          `bson:"imagen,omitempty" json:"imagen,omitempty"`
	ImagenEditada       string          `bson:"imagen_editada,omitempty" json:"imagenEditada,omitempty"`
	ImagenesAdicionales []string        `bson:"imagenes_adicionales" json:"imagenesAdicionales"`
	Costo               decimal.Decimal `bson:"costo" json:"costo"`
	Disponible          bool            `bson:"disponible" json:"disponible"`
	CreadorID           string          `bson:"creador_id" json:"creadorId"`
	TipoID              string          `bson:"tipo_id,omitempty" json:"tipoId,omitempty"`
	CreatedAt           time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time       `bson:"updated_at" json:"updatedAt"`
}

type ArregloDetalle struct {
	*Arreglo
	Creador *UsuarioResumen `json:"creador,omitempty"`
	Tipo    *TipoResumen    `json:"tipo,omitempty"`
}

type TipoArreglo struct {
	ID          string    `bson:"_id" json:"id"`
	Nombre      string    `bson:"nombre" json:"nombre"`
	Descripcion string    `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Activo      bool      `bson:"activo" json:"activo"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

type TipoResumen struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type TipoArregloDetalle struct {
	*TipoArreglo
	Count struct {
		Arreglos int64 `json:"arreglos"`
	} `json:"_count"`
}

type Flor struct {
	ID          string          `bson:"_id" json:"id"`
	Nombre      string          `bson:"nombre" json:"nombre"`
	Descripcion string          `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Temporada   string          `bson:"temporada" json:"temporada"`
	CostoBase   decimal.Decimal `bson:"costo_base" json:"costoBase"`
	Disponible  bool            `bson:"disponible" json:"disponible"`
	Imagen      string          `bson:"imagen,omitempty" json:"imagen,omitempty"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updatedAt"`
}
