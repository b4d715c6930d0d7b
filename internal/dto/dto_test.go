package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal(t *testing.T) {
	d, err := Decimal(nil)
	require.NoError(t, err)
	assert.Nil(t, d)

	vacio := json.Number("")
	d, err = Decimal(&vacio)
	require.NoError(t, err)
	assert.Nil(t, d)

	n := json.Number("50000.50")
	d, err = Decimal(&n)
	require.NoError(t, err)
	assert.Equal(t, "50000.5", d.String())

	malo := json.Number("abc")
	_, err = Decimal(&malo)
	assert.Error(t, err)
}

func TestHoraEntrega(t *testing.T) {
	got, err := HoraEntrega("2026-10-20T15:30:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 10, 20, 15, 30, 0, 0, time.UTC)))

	got, err = HoraEntrega("2026-10-20T15:30")
	require.NoError(t, err)
	assert.Equal(t, 15, got.Hour())
	assert.Equal(t, 30, got.Minute())

	_, err = HoraEntrega("mañana")
	assert.Error(t, err)
}

func TestCrearPedidoRequestAcceptsNumberOrString(t *testing.T) {
	var req CrearPedidoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"arregloId":"a1","valorAcordado":50000,"extras":"1500"}`), &req))
	require.NotNil(t, req.ValorAcordado)
	require.NotNil(t, req.Extras)
	assert.Equal(t, "50000", req.ValorAcordado.String())
	assert.Equal(t, "1500", req.Extras.String())
}

func TestActualizarPedidoRequestAceptaTexto(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantPrioridad *int
		wantVerif     *bool
		wantErr       bool
	}{
		{"tipos nativos", `{"prioridad":2,"transferenciaVerificada":true}`, ptr(2), ptr(true), false},
		{"como texto", `{"prioridad":"3","transferenciaVerificada":"true"}`, ptr(3), ptr(true), false},
		{"texto distinto de true", `{"transferenciaVerificada":"si"}`, nil, ptr(false), false},
		{"ausentes", `{}`, nil, nil, false},
		{"null", `{"prioridad":null}`, nil, nil, false},
		{"prioridad no numérica", `{"prioridad":"alta"}`, nil, nil, true},
		{"booleano numérico", `{"transferenciaVerificada":1}`, nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ActualizarPedidoRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrioridad, req.Prioridad.Ptr())
			assert.Equal(t, tt.wantVerif, req.TransferenciaVerificada.Ptr())
		})
	}
}

func ptr[T any](v T) *T { return &v }
