package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/memory"
)

func TestGenerateReplenishmentList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locs := entity.NewLocationSet([]string{"Deposito", "Local"})
	uc := inventory.NewRegisterMovementUseCase(store, store.Movements(), store.Products(), locs, nil, nil)
	repl := inventory.NewReplenishmentUseCase(store.Reports(), locs, 5)

	register := func(in inventory.MovementInput) *inventory.MovementResult {
		in.Actor = "Ana"
		res, err := uc.RegisterMovement(ctx, in)
		require.NoError(t, err)
		return res
	}

	// A: 0 en Local, 2 en Depósito -> sugiere 2 (lo disponible)
	register(inventory.MovementInput{Kind: entity.MovementEntrada, Product: catalog.New("A", "Alfa", nil), Quantity: 2, Destination: "Deposito"})
	// B: 4 en Local, 10 en Depósito -> sugiere 1
	b := register(inventory.MovementInput{Kind: entity.MovementEntrada, Product: catalog.New("B", "Beta", nil), Quantity: 14, Destination: "Deposito"})
	register(inventory.MovementInput{Kind: entity.MovementTraslado, Product: catalog.Existing(b.Product.ID), Quantity: 4, Origin: "Deposito", Destination: "Local"})
	// C: 6 en Local -> no necesita reposición
	register(inventory.MovementInput{Kind: entity.MovementEntrada, Product: catalog.New("C", "Gama", nil), Quantity: 6, Destination: "Local"})
	// D: 0 en Local y 0 en Depósito -> nada que trasladar
	register(inventory.MovementInput{Kind: entity.MovementEntrada, Product: catalog.New("D", "Delta", nil), Quantity: 1, Destination: "Local"})
	// (D queda en 1 < 5 pero sin stock en origen)

	out, err := repl.GenerateReplenishmentList(ctx, dto.ReplenishmentRequest{Location: "Local", Source: "Deposito"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.Target)
	require.Len(t, out.Items, 2)

	assert.Equal(t, "A", out.Items[0].Product.Code)
	assert.Equal(t, int64(2), out.Items[0].SuggestedQty)
	assert.Equal(t, 1, out.Items[0].Priority)

	assert.Equal(t, "B", out.Items[1].Product.Code)
	assert.Equal(t, int64(4), out.Items[1].CurrentStock)
	assert.Equal(t, int64(10), out.Items[1].SourceStock)
	assert.Equal(t, int64(1), out.Items[1].SuggestedQty)
	assert.Equal(t, 2, out.Items[1].Priority)

	// Target explícito
	out, err = repl.GenerateReplenishmentList(ctx, dto.ReplenishmentRequest{Location: "Local", Source: "Deposito", Target: 8})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(4), out.Items[1].SuggestedQty)
}

func TestGenerateReplenishmentList_Validacion(t *testing.T) {
	store := memory.NewStore()
	locs := entity.NewLocationSet([]string{"Deposito", "Local"})
	repl := inventory.NewReplenishmentUseCase(store.Reports(), locs, 0)

	cases := []dto.ReplenishmentRequest{
		{Location: "Bodega", Source: "Deposito"},
		{Location: "Local", Source: ""},
		{Location: "Local", Source: "Local"},
		{Location: "Local", Source: "Deposito"}, // sin target por defecto
	}
	for _, req := range cases {
		_, err := repl.GenerateReplenishmentList(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", req)
	}
}
