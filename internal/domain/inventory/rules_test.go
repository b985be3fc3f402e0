package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
)

var locations = entity.NewLocationSet([]string{"Deposito", "Local"})

func TestValidate_FormasValidas(t *testing.T) {
	cases := []inventory.Shape{
		{Kind: entity.MovementEntrada, Quantity: 10, Destination: "Deposito", Actor: "Ana"},
		{Kind: entity.MovementTraslado, Quantity: 3, Origin: "Deposito", Destination: "Local", Actor: "Ana"},
		{Kind: entity.MovementSalida, Quantity: 1, Origin: "Local", Actor: "Ana"},
	}
	for _, s := range cases {
		assert.NoError(t, inventory.Validate(s, locations), string(s.Kind))
	}
}

func TestValidate_Rechazos(t *testing.T) {
	cases := []struct {
		name  string
		shape inventory.Shape
		field string
	}{
		{"tipo desconocido", inventory.Shape{Kind: "AJUSTE", Quantity: 1, Destination: "Local", Actor: "Ana"}, "tipo"},
		{"cantidad cero", inventory.Shape{Kind: entity.MovementEntrada, Quantity: 0, Destination: "Local", Actor: "Ana"}, "cantidad"},
		{"cantidad negativa", inventory.Shape{Kind: entity.MovementSalida, Quantity: -2, Origin: "Local", Actor: "Ana"}, "cantidad"},
		{"sin vendedor", inventory.Shape{Kind: entity.MovementEntrada, Quantity: 1, Destination: "Local", Actor: "  "}, "vendedor"},
		{"entrada sin destino", inventory.Shape{Kind: entity.MovementEntrada, Quantity: 1, Actor: "Ana"}, "ubicacion_destino"},
		{"entrada con origen", inventory.Shape{Kind: entity.MovementEntrada, Quantity: 1, Origin: "Local", Destination: "Deposito", Actor: "Ana"}, "ubicacion_origen"},
		{"traslado sin origen", inventory.Shape{Kind: entity.MovementTraslado, Quantity: 1, Destination: "Local", Actor: "Ana"}, "ubicacion"},
		{"traslado misma ubicación", inventory.Shape{Kind: entity.MovementTraslado, Quantity: 1, Origin: "Local", Destination: "Local", Actor: "Ana"}, "ubicacion_destino"},
		{"salida sin origen", inventory.Shape{Kind: entity.MovementSalida, Quantity: 1, Actor: "Ana"}, "ubicacion_origen"},
		{"salida con destino", inventory.Shape{Kind: entity.MovementSalida, Quantity: 1, Origin: "Local", Destination: "Deposito", Actor: "Ana"}, "ubicacion_destino"},
		{"ubicación desconocida", inventory.Shape{Kind: entity.MovementEntrada, Quantity: 1, Destination: "Galpon", Actor: "Ana"}, "ubicacion_destino"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.Validate(tc.shape, locations)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestEffects_DecrementosPrimero(t *testing.T) {
	effects := inventory.Effects(inventory.Shape{Kind: entity.MovementTraslado, Quantity: 4, Origin: "Deposito", Destination: "Local"})
	require.Len(t, effects, 2)
	assert.Equal(t, inventory.Effect{Location: "Deposito", Delta: -4}, effects[0])
	assert.Equal(t, inventory.Effect{Location: "Local", Delta: 4}, effects[1])
	assert.True(t, effects[0].IsDecrement())
	assert.Equal(t, int64(4), effects[0].Units())
	assert.False(t, effects[1].IsDecrement())

	entrada := inventory.Effects(inventory.Shape{Kind: entity.MovementEntrada, Quantity: 7, Destination: "Local"})
	assert.Equal(t, []inventory.Effect{{Location: "Local", Delta: 7}}, entrada)

	salida := inventory.Effects(inventory.Shape{Kind: entity.MovementSalida, Quantity: 2, Origin: "Local"})
	assert.Equal(t, []inventory.Effect{{Location: "Local", Delta: -2}}, salida)
}

func TestApply_RecalculaSaldos(t *testing.T) {
	deposito, local := "Deposito", "Local"
	log := []*entity.Movement{
		{Kind: entity.MovementEntrada, Quantity: 10, Destination: &deposito, ProductID: "p1"},
		{Kind: entity.MovementTraslado, Quantity: 4, Origin: &deposito, Destination: &local, ProductID: "p1"},
		{Kind: entity.MovementSalida, Quantity: 1, Origin: &local, ProductID: "p1"},
		{Kind: entity.MovementEntrada, Quantity: 2, Destination: &local, ProductID: "p2"},
	}
	balances := make(map[string]map[string]int64)
	for _, m := range log {
		inventory.Apply(balances, m)
	}
	assert.Equal(t, map[string]int64{"Deposito": 6, "Local": 3}, balances["p1"])
	assert.Equal(t, map[string]int64{"Local": 2}, balances["p2"])
}
