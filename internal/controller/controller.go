package controller

import (
	"net/http"
	"strings"

	"floreria-service/internal/dto"
	"floreria-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PedidoController struct {
	Service *service.PedidoService
	files   uploads
}

func NewPedidoController(s *service.PedidoService, maxBytes int64) *PedidoController {
	return &PedidoController{Service: s, files: uploads{maxBytes: maxBytes}}
}

// POST /api/pedidos - solo clientes
func (ctl *PedidoController) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.ArregloID) == "" || strings.TrimSpace(req.HoraEntrega) == "" || req.ValorAcordado == nil {
		badRequest(c, "Arreglo, hora de entrega y valor acordado son requeridos")
		return
	}
	hora, err := dto.HoraEntrega(req.HoraEntrega)
	if err != nil {
		badRequest(c, "Formato de hora de entrega inválido")
		return
	}
	valor, ok := monto(c, "valorAcordado", req.ValorAcordado)
	if !ok {
		return
	}
	extras, ok := monto(c, "extras", req.Extras)
	if !ok {
		return
	}

	in := service.CrearPedidoInput{
		ArregloID:     req.ArregloID,
		HoraEntrega:   hora,
		ValorAcordado: *valor,
		Extras:        decimal.Zero,
		Notas:         req.Notas,
	}
	if extras != nil {
		in.Extras = *extras
	}
	if in.ImagenReferencia, err = ctl.files.archivo(c, "imagenReferencia"); err != nil {
		respondError(c, err)
		return
	}
	if in.ComprobantePago, err = ctl.files.archivo(c, "comprobantePago"); err != nil {
		respondError(c, err)
		return
	}

	res, err := ctl.Service.Crear(c.Request.Context(), actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/pedidos - el listado depende del rol
func (ctl *PedidoController) Listar(c *gin.Context) {
	var q dto.ListarPedidosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	pedidos, err := ctl.Service.Listar(c.Request.Context(), actor(c), service.ListarPedidosInput{
		Estado:    q.Estado,
		ClienteID: q.ClienteID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedidos)
}

// GET /api/pedidos/pendientes - gerente y admin
func (ctl *PedidoController) Pendientes(c *gin.Context) {
	pedidos, err := ctl.Service.Pendientes(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedidos)
}

func (ctl *PedidoController) Obtener(c *gin.Context) {
	p, err := ctl.Service.Obtener(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PUT /api/pedidos/:id - cada rol solo puede tocar sus campos
func (ctl *PedidoController) Actualizar(c *gin.Context) {
	var req dto.ActualizarPedidoRequest
	if !bind(c, &req) {
		return
	}
	extras, ok := monto(c, "extras", req.Extras)
	if !ok {
		return
	}

	in := service.ActualizarPedidoInput{
		Estado:                  req.Estado,
		EmpleadoID:              req.EmpleadoID,
		Extras:                  extras,
		Notas:                   req.Notas,
		NotasCliente:            req.NotasCliente,
		Prioridad:               req.Prioridad.Ptr(),
		TransferenciaVerificada: req.TransferenciaVerificada.Ptr(),
	}
	var err error
	if in.ComprobanteExtras, err = ctl.files.archivo(c, "comprobanteExtras"); err != nil {
		respondError(c, err)
		return
	}

	p, err := ctl.Service.Actualizar(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
