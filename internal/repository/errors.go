package repository

import "errors"

var (
	ErrNotFound  = errors.New("registro no encontrado")
	ErrDuplicate = errors.New("registro duplicado")
	ErrConflict  = errors.New("el registro cambió de estado")
)
