package controller

import (
	"net/http"
	"strings"

	"floreria-service/internal/dto"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
)

type StockController struct {
	Service *service.StockService
	files   uploads
}

func NewStockController(s *service.StockService, maxBytes int64) *StockController {
	return &StockController{Service: s, files: uploads{maxBytes: maxBytes}}
}

// GET /api/stock?estado=&arregloId=
func (ctl *StockController) Listar(c *gin.Context) {
	unidades, err := ctl.Service.Listar(c.Request.Context(), c.Query("estado"), c.Query("arregloId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unidades)
}

func (ctl *StockController) Stats(c *gin.Context) {
	stats, err := ctl.Service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ctl *StockController) Crear(c *gin.Context) {
	var req dto.CrearStockRequest
	if !bind(c, &req) {
		return
	}
	precio, ok := monto(c, "precioVenta", req.PrecioVenta)
	if !ok {
		return
	}
	if strings.TrimSpace(req.ArregloID) == "" || precio == nil {
		badRequest(c, "Arreglo y precio de venta son requeridos")
		return
	}
	imagen, err := ctl.files.archivo(c, "imagen")
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := ctl.Service.Crear(c.Request.Context(), actor(c), service.CrearStockInput{
		ArregloID:   req.ArregloID,
		Cantidad:    req.Cantidad,
		PrecioVenta: precio,
		Notas:       req.Notas,
		Imagen:      imagen,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// POST /api/stock/:id/vender
func (ctl *StockController) Vender(c *gin.Context) {
	var req dto.VenderStockRequest
	if !bind(c, &req) {
		return
	}
	comprobante, err := ctl.files.archivo(c, "comprobantePago")
	if err != nil {
		respondError(c, err)
		return
	}
	s, err := ctl.Service.Vender(c.Request.Context(), actor(c), c.Param("id"), service.VenderStockInput{
		MetodoPago:      req.MetodoPago,
		Notas:           req.Notas,
		ComprobantePago: comprobante,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (ctl *StockController) Actualizar(c *gin.Context) {
	var req dto.ActualizarStockRequest
	if !bind(c, &req) {
		return
	}
	precio, ok := monto(c, "precioVenta", req.PrecioVenta)
	if !ok {
		return
	}
	s, err := ctl.Service.Actualizar(c.Request.Context(), actor(c), c.Param("id"), service.ActualizarStockInput{
		PrecioVenta: precio,
		Estado:      req.Estado,
		Notas:       req.Notas,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (ctl *StockController) Eliminar(c *gin.Context) {
	if err := ctl.Service.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Artículo eliminado del stock"})
}
