// Package media sube imágenes a un almacenamiento de objetos y devuelve una URL estable.
package media

import (
	"context"
	"errors"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotConfigured = errors.New("el almacenamiento de imágenes no está configurado")
	ErrTooLarge      = errors.New("el archivo es demasiado grande")
	ErrInvalidImage  = errors.New("imagen inválida")
)

// Archivo es un payload ya leído en memoria (multipart o data URL).
type Archivo struct {
	Nombre      string
	ContentType string
	Data        []byte
}

type Store interface {
	Upload(ctx context.Context, a Archivo) (string, error)
	Configured() bool
}

// Disabled se usa cuando MEDIA_DRIVER=none: todo upload falla.
type Disabled struct{}

func (Disabled) Upload(context.Context, Archivo) (string, error) { return "", ErrNotConfigured }
func (Disabled) Configured() bool                                { return false }

// objectKey arma floreria/AAAA/MM/<uuid><ext>.
func objectKey(a Archivo, t time.Time) string {
	ext := strings.ToLower(filepath.Ext(a.Nombre))
	if ext == "" && a.ContentType != "" {
		if exts, _ := mime.ExtensionsByType(a.ContentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return path.Join("floreria", t.UTC().Format("2006"), t.UTC().Format("01"), uuid.NewString()+ext)
}
