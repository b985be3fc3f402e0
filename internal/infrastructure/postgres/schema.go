package postgres

import (
	"context"
	"fmt"
)

// schemaDDL crea las tres tablas del libro. Idempotente (IF NOT EXISTS).
// Los nombres de constraint los usa utils.go para traducir violaciones a errores de dominio.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS products (
	id          UUID PRIMARY KEY,
	code        TEXT NOT NULL,
	description TEXT NOT NULL,
	photo_url   TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT products_code_key UNIQUE (code)
);

CREATE TABLE IF NOT EXISTS stock_balances (
	product_id UUID NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
	location   TEXT NOT NULL,
	quantity   BIGINT NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (product_id, location),
	CONSTRAINT stock_balances_quantity_check CHECK (quantity >= 0)
);

CREATE TABLE IF NOT EXISTS movements (
	id              UUID PRIMARY KEY,
	kind            TEXT NOT NULL CHECK (kind IN ('ENTRADA', 'TRASLADO', 'SALIDA')),
	quantity        BIGINT NOT NULL CHECK (quantity > 0),
	origin          TEXT,
	destination     TEXT,
	actor           TEXT NOT NULL,
	note            TEXT,
	photo_url       TEXT,
	product_id      UUID NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
	idempotency_key TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
	CONSTRAINT movements_idempotency_key_key UNIQUE (idempotency_key),
	CONSTRAINT movements_locations_check CHECK (
		(kind = 'ENTRADA'  AND origin IS NULL     AND destination IS NOT NULL) OR
		(kind = 'TRASLADO' AND origin IS NOT NULL AND destination IS NOT NULL AND origin <> destination) OR
		(kind = 'SALIDA'   AND origin IS NOT NULL AND destination IS NULL)
	)
);

CREATE INDEX IF NOT EXISTS movements_created_at_idx ON movements (created_at DESC);
CREATE INDEX IF NOT EXISTS movements_product_idx ON movements (product_id, created_at DESC);
CREATE INDEX IF NOT EXISTS movements_actor_idx ON movements (actor, created_at DESC);
`

// EnsureSchema crea las tablas si no existen. Se ejecuta al iniciar cuando DB_AUTO_MIGRATE=true.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
