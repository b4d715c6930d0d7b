package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"floreria-service/internal/apperr"
	"floreria-service/internal/dto"
	"floreria-service/internal/media"
	"floreria-service/internal/middleware"
	"floreria-service/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// respondError traduce el error de servicio a {error}. En release no se filtra el detalle interno.
func respondError(c *gin.Context, err error) {
	ae := apperr.From(err)
	status := ae.Status()
	body := gin.H{"error": ae.Message}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if gin.Mode() != gin.ReleaseMode && ae.Err != nil {
			body["detalle"] = ae.Err.Error()
		}
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// bind acepta JSON, form-urlencoded y multipart.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		badRequest(c, "Datos inválidos: "+err.Error())
		return false
	}
	return true
}

func actor(c *gin.Context) *model.Usuario {
	return middleware.Usuario(c)
}

// monto convierte un json.Number opcional; si no es numérico responde 400.
func monto(c *gin.Context, campo string, n *json.Number) (*decimal.Decimal, bool) {
	d, err := dto.Decimal(n)
	if err != nil {
		badRequest(c, fmt.Sprintf("El campo %s debe ser numérico", campo))
		return nil, false
	}
	return d, true
}

// queryBool devuelve nil si el parámetro no vino o no es un booleano.
func queryBool(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

// uploads lee archivos de un request multipart con un tope de tamaño.
type uploads struct {
	maxBytes int64
}

func (u uploads) archivo(c *gin.Context, campo string) (*media.Archivo, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	fh, err := c.FormFile(campo)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("Archivo inválido en " + campo)
	}
	if fh.Size > u.maxBytes {
		return nil, apperr.Validation(fmt.Sprintf("El archivo %s supera el tamaño máximo de %dMB", campo, u.maxBytes>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal("Error al leer el archivo", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, u.maxBytes+1))
	if err != nil {
		return nil, apperr.Internal("Error al leer el archivo", err)
	}
	if int64(len(data)) > u.maxBytes {
		return nil, apperr.Validation(fmt.Sprintf("El archivo %s supera el tamaño máximo de %dMB", campo, u.maxBytes>>20))
	}
	return &media.Archivo{
		Nombre:      fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// adicionales junta imagenAdicional_0..4 en orden, salteando los que faltan.
func (u uploads) adicionales(c *gin.Context) ([]media.Archivo, error) {
	var out []media.Archivo
	for i := range maxAdicionales {
		a, err := u.archivo(c, fmt.Sprintf("imagenAdicional_%d", i))
		if err != nil {
			return nil, err
		}
		if a != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

const maxAdicionales = 5
