// Package analytics contiene las vistas derivadas de solo lectura: resumen de stock
// consolidado y estadísticas diarias de movimientos.
package analytics

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// StatsUseCase genera las estadísticas de un día y el resumen de stock.
//
// Fuente de datos: ReportRepository (consultas read-only).
// Nunca muta saldos ni movimientos; refleja el último estado confirmado visible.
type StatsUseCase struct {
	reportRepo repository.ReportRepository
	locations  entity.LocationSet
	tz         *time.Location
	now        func() time.Time
}

// NewStatsUseCase construye el caso de uso. tz define el inicio y fin del día.
func NewStatsUseCase(reportRepo repository.ReportRepository, locations entity.LocationSet, tz *time.Location) *StatsUseCase {
	if tz == nil {
		tz = time.UTC
	}
	return &StatsUseCase{reportRepo: reportRepo, locations: locations, tz: tz, now: time.Now}
}

// DailyStats construye las estadísticas del día indicado (YYYY-MM-DD; vacío = hoy).
//
// Cinco consultas en paralelo:
//  1. CountProducts        → TotalProducts
//  2. UnitsByLocation      → UnitsPerLocation + TotalUnits
//  3. CountMovements(día)  → MovementsOfDay
//  4. MovementsByActor(día)
//  5. MovementsByKind(día)
func (uc *StatsUseCase) DailyStats(ctx context.Context, date string) (*dto.DailyStatsResponse, error) {
	day, err := uc.dayStart(date)
	if err != nil {
		return nil, err
	}
	dayEnd := day.AddDate(0, 0, 1)

	var (
		totalProducts int
		units         map[string]int64
		movements     int
		byActor       []repository.Rollup
		byKind        []repository.Rollup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalProducts, err = uc.reportRepo.CountProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		units, err = uc.reportRepo.UnitsByLocation(gctx)
		return err
	})
	g.Go(func() (err error) {
		movements, err = uc.reportRepo.CountMovements(gctx, day, dayEnd)
		return err
	})
	g.Go(func() (err error) {
		byActor, err = uc.reportRepo.MovementsByActor(gctx, day, dayEnd)
		return err
	})
	g.Go(func() (err error) {
		byKind, err = uc.reportRepo.MovementsByKind(gctx, day, dayEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &domain.TransientError{Op: "estadísticas del día", Err: err}
	}

	perLocation := uc.zeroLocations()
	var total int64
	for loc, qty := range units {
		perLocation[loc] = qty
		total += qty
	}
	return &dto.DailyStatsResponse{
		Date:             day.Format(dateLayout),
		TotalProducts:    totalProducts,
		TotalUnits:       total,
		UnitsPerLocation: perLocation,
		MovementsOfDay:   movements,
		ByActor:          toRollupDTOs(byActor),
		ByKind:           toRollupDTOs(byKind),
	}, nil
}

func (uc *StatsUseCase) dayStart(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		now := uc.now().In(uc.tz)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.tz), nil
	}
	day, err := time.ParseInLocation(dateLayout, date, uc.tz)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "formato esperado YYYY-MM-DD")
	}
	return day, nil
}

func (uc *StatsUseCase) zeroLocations() map[string]int64 {
	out := make(map[string]int64)
	for _, loc := range uc.locations.Names() {
		out[loc] = 0
	}
	return out
}

func toRollupDTOs(rows []repository.Rollup) []dto.RollupDTO {
	out := make([]dto.RollupDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.RollupDTO{Key: r.Key, Records: r.Records, Units: r.Units})
	}
	return out
}
