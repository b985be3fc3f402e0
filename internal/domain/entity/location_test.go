package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

func TestNewLocationSet(t *testing.T) {
	s := entity.NewLocationSet([]string{" Local ", "Deposito", "Local", ""})
	assert.Equal(t, []string{"Local", "Deposito"}, s.Names())
	assert.True(t, s.Contains("Deposito"))
	assert.False(t, s.Contains("deposito"))

	def := entity.NewLocationSet(nil)
	assert.Equal(t, entity.DefaultLocations, def.Names())
}

func TestMovementKind(t *testing.T) {
	for _, k := range entity.MovementKinds {
		assert.True(t, k.Valid())
	}
	assert.False(t, entity.MovementKind("entrada").Valid())
	assert.Equal(t, "Traslado", entity.MovementTraslado.Label())
}
