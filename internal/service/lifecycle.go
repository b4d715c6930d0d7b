package service

import "floreria-service/internal/model"

// Evento es lo que dispara un cambio de estado en un pedido.
type Evento int

const (
	EventoCambioExplicito Evento = iota
	EventoAsignacion
	EventoPagoVerificado
)

// Transicion calcula el estado que resulta de aplicar un evento. No valida
// permisos: eso lo resuelve la tabla de permisos antes de llegar acá.
func Transicion(actual, solicitado model.Estado, ev Evento) model.Estado {
	switch ev {
	case EventoCambioExplicito:
		if solicitado != "" {
			return solicitado
		}
	case EventoAsignacion:
		if actual == model.EstadoPendiente || actual == model.EstadoTransferenciaVerificada {
			return model.EstadoAsignado
		}
	case EventoPagoVerificado:
		if actual == model.EstadoPendiente {
			return model.EstadoTransferenciaVerificada
		}
	}
	return actual
}

// Solicitud resume los eventos presentes en una actualización.
type Solicitud struct {
	Estado         *model.Estado
	Asignacion     bool
	PagoVerificado bool
}

// Resolver aplica los eventos por precedencia: el estado explícito gana,
// luego la asignación y por último la verificación del pago.
func Resolver(actual model.Estado, s Solicitud) model.Estado {
	if s.Estado != nil {
		return Transicion(actual, *s.Estado, EventoCambioExplicito)
	}
	nuevo := actual
	if s.Asignacion {
		nuevo = Transicion(nuevo, "", EventoAsignacion)
	}
	if s.PagoVerificado && nuevo == actual {
		nuevo = Transicion(nuevo, "", EventoPagoVerificado)
	}
	return nuevo
}

// Campo es un campo de pedido que se puede modificar en una actualización.
type Campo string

const (
	CampoEstado                  Campo = "estado"
	CampoEmpleado                Campo = "empleadoId"
	CampoExtras                  Campo = "extras"
	CampoNotas                   Campo = "notas"
	CampoNotasCliente            Campo = "notasCliente"
	CampoPrioridad               Campo = "prioridad"
	CampoTransferenciaVerificada Campo = "transferenciaVerificada"
	CampoComprobanteExtras       Campo = "comprobanteExtras"
)

// Lo que no figura en la tabla se ignora en silencio.
var permisosPedido = map[model.Rol]map[Campo]bool{
	model.RolAdmin: {
		CampoEstado:                  true,
		CampoEmpleado:                true,
		CampoExtras:                  true,
		CampoNotas:                   true,
		CampoPrioridad:               true,
		CampoTransferenciaVerificada: true,
	},
	model.RolGerente: {
		CampoEstado:                  true,
		CampoEmpleado:                true,
		CampoNotas:                   true,
		CampoPrioridad:               true,
		CampoTransferenciaVerificada: true,
	},
	model.RolEmpleado: {
		CampoEstado:    true,
		CampoNotas:     true,
		CampoPrioridad: true,
	},
	model.RolCliente: {
		CampoExtras:            true,
		CampoNotasCliente:      true,
		CampoComprobanteExtras: true,
	},
}

func Puede(rol model.Rol, campo Campo) bool {
	return permisosPedido[rol][campo]
}

// Un empleado solo avanza el trabajo, no retrocede ni cancela.
var estadosEmpleado = map[model.Estado]bool{
	model.EstadoEnProceso:  true,
	model.EstadoCompletado: true,
}

// EstadoPermitido indica si el rol puede fijar explícitamente ese estado.
func EstadoPermitido(rol model.Rol, e model.Estado) bool {
	if !Puede(rol, CampoEstado) {
		return false
	}
	if rol == model.RolEmpleado {
		return estadosEmpleado[e]
	}
	return true
}

// PuedeAsignarA indica si quien asigna puede dejar el pedido a cargo de un usuario con ese rol.
func PuedeAsignarA(asigna, asignado model.Rol) bool {
	switch asigna {
	case model.RolAdmin:
		return asignado.Personal()
	case model.RolGerente:
		return asignado == model.RolEmpleado
	}
	return false
}
