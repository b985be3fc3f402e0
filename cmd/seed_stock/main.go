// seed_stock carga stock inicial desde un CSV registrando una ENTRADA por fila.
// Columnas: codigo;descripcion;cantidad;ubicacion (la primera fila puede ser encabezado).
// Acepta UTF-8 o ISO-8859-1 (exportaciones de planillas antiguas).
//
// Uso: go run ./cmd/seed_stock stock.csv [vendedor]
// Usa la misma configuración que la API (DATABASE_URL, INVENTORY_LOCATIONS, ...).
// Cada fila lleva clave de idempotencia "seed:<archivo>:<línea>": correrlo dos veces no duplica stock.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-movimientos/pkg/config"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

const defaultActor = "carga-inicial"

type seedRow struct {
	line        int
	code        string
	description string
	quantity    int64
	location    string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_stock archivo.csv [vendedor]")
		os.Exit(2)
	}
	csvPath := os.Args[1]
	actor := defaultActor
	if len(os.Args) > 2 {
		actor = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", csvPath).Msg("leer CSV")
	}
	rows, err := parseRows(decode(raw))
	if err != nil {
		log.Fatal().Err(err).Msg("parsear CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema")
	}

	uc := inventory.NewRegisterMovementUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewMovementRepository(pool),
		postgres.NewProductRepository(pool),
		entity.NewLocationSet(cfg.Inventory.Locations),
		nil, log,
	)

	base := filepath.Base(csvPath)
	var ok, replayed, failed int
	for _, r := range rows {
		res, err := uc.RegisterMovement(ctx, inventory.MovementInput{
			Kind:           entity.MovementEntrada,
			Product:        catalog.New(r.code, r.description, nil),
			Quantity:       r.quantity,
			Destination:    r.location,
			Actor:          actor,
			IdempotencyKey: fmt.Sprintf("seed:%s:%d", base, r.line),
		})
		switch {
		case err != nil:
			failed++
			log.Warn().Err(err).Int("line", r.line).Str("code", r.code).Msg("fila rechazada")
		case res.Replayed:
			replayed++
		default:
			ok++
		}
	}
	log.Info().Int("registradas", ok).Int("repetidas", replayed).Int("rechazadas", failed).Msg("carga finalizada")
	if failed > 0 {
		os.Exit(1)
	}
}

// decode convierte a UTF-8 si el archivo no lo es (se asume ISO-8859-1).
func decode(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parseRows lee las filas; una cantidad no numérica en la primera fila se toma como encabezado.
func parseRows(r io.Reader) ([]seedRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var rows []seedRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("línea %d: cantidad inválida %q", line, rec[2])
		}
		rows = append(rows, seedRow{
			line:        line,
			code:        strings.TrimSpace(rec[0]),
			description: strings.TrimSpace(rec[1]),
			quantity:    qty,
			location:    strings.TrimSpace(rec[3]),
		})
	}
	return rows, nil
}
