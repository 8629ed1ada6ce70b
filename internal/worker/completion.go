package worker

import (
	"context"
	"log"
	"time"

	"github.com/stayware/booking-service/internal/models"
	"github.com/stayware/booking-service/internal/repository"
	"github.com/stayware/booking-service/internal/service"
)

// CompletionWorker periodically flips confirmed reservations whose
// check-out date has passed to completed.
type CompletionWorker struct {
	reservations repository.ReservationRepository
	svc          service.BookingService
	interval     time.Duration
	now          func() time.Time
}

func NewCompletionWorker(reservations repository.ReservationRepository, svc service.BookingService, interval time.Duration) *CompletionWorker {
	return &CompletionWorker{
		reservations: reservations,
		svc:          svc,
		interval:     interval,
		now:          time.Now,
	}
}

func (w *CompletionWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.Sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				log.Println("[CompletionWorker] stopping")
				return
			case <-ticker.C:
				w.Sweep(ctx)
			}
		}
	}()
}

// Sweep completes every due reservation, logging and continuing on
// individual failures.
func (w *CompletionWorker) Sweep(ctx context.Context) {
	today := models.ToDay(w.now())

	ids, err := w.reservations.FindDueForCompletion(ctx, today)
	if err != nil {
		log.Printf("[CompletionWorker] failed to list due reservations: %v", err)
		return
	}

	for _, id := range ids {
		if _, err := w.svc.MarkCompleted(ctx, id); err != nil {
			log.Printf("[CompletionWorker] failed to complete %s: %v", id, err)
			continue
		}
		log.Printf("[CompletionWorker] completed reservation %s", id)
	}
}
