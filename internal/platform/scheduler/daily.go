package scheduler

import (
	"context"
	"time"

	"chronic-care-tracker/internal/platform/logger"
)

// ResetFunc es la operación bulk que dispara cada tick.
type ResetFunc func(ctx context.Context) error

// Daily dispara fn en cada frontera de día (00:00) de la zona configurada.
// El disparo es fire-and-forget: si el proceso estuvo caído durante una
// frontera, no hay catch-up; el próximo tick resetea desde el estado que
// haya quedado. Un tick fallido solo se loguea: fn es idempotente y el
// próximo tick (o el disparo manual) lo reintenta.
type Daily struct {
	fn  ResetFunc
	log logger.Logger
	loc *time.Location
	now func() time.Time
}

func NewDaily(fn ResetFunc, log logger.Logger, loc *time.Location) *Daily {
	if loc == nil {
		loc = time.Local
	}
	return &Daily{
		fn:  fn,
		log: log,
		loc: loc,
		now: time.Now,
	}
}

// Run bloquea hasta que ctx se cancele. Pensado para correr en su propia
// goroutine desde main.
func (d *Daily) Run(ctx context.Context) {
	for {
		now := d.now().In(d.loc)
		next := nextBoundary(now)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		d.tick(ctx)
	}
}

func (d *Daily) tick(ctx context.Context) {
	start := d.now()
	if err := d.fn(ctx); err != nil {
		d.log.Error("daily slot reset failed", map[string]any{"error": err.Error()})
		return
	}
	d.log.Info("daily slot reset completed", map[string]any{
		"took": d.now().Sub(start).String(),
	})
}

// nextBoundary devuelve la próxima medianoche estricta posterior a t,
// en la zona de t.
func nextBoundary(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
