// Package notify carries user-facing success/failure notices from the service
// layer to whatever presents them (the API pushes them to the UI as toasts).
// Each notice gets a stable identifier derived from the entity id so the same
// mutation result processed twice does not toast twice.
package notify

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Kind names the mutation a notification reports on.
type Kind string

const (
	TrainingPlanCreated Kind = "training-plan-created"
	TrainingPlanUpdated Kind = "training-plan-updated"
	TrainingPlanDeleted Kind = "training-plan-deleted"
	ClientCreated       Kind = "client-created"
	ClientUpdated       Kind = "client-updated"
	ClientDeleted       Kind = "client-deleted"
	AppointmentCreated  Kind = "appointment-created"
	AppointmentUpdated  Kind = "appointment-updated"
	AppointmentDeleted  Kind = "appointment-deleted"
)

// Variant distinguishes success toasts from failure toasts.
type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Notification is one toast-worthy event.
type Notification struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Variant Variant `json:"variant"`
}

// Sink receives notifications that survived deduplication.
type Sink interface {
	Notify(Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// LogSink writes notifications to the standard logger.
func LogSink() Sink {
	return SinkFunc(func(n Notification) {
		log.Printf("NOTIFY [%s] %s: %s", n.Variant, n.Title, n.Message)
	})
}

// A repeat of the same kind+entity within dedupeWindow is suppressed;
// bookkeeping older than sweepAfter is dropped.
const (
	dedupeWindow = 2 * time.Second
	sweepAfter   = 10 * time.Second
)

// Service deduplicates and forwards notifications.
type Service struct {
	mu     sync.Mutex
	sink   Sink
	recent map[string]time.Time
	now    func() time.Time
}

// NewService creates a notification service writing to sink.
func NewService(sink Sink) *Service {
	return &Service{
		sink:   sink,
		recent: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Success emits a success notification for a mutation on the given entity.
// It reports false when an identical notification was emitted within the
// deduplication window.
func (s *Service) Success(kind Kind, entityID string, title, message string) bool {
	key := fmt.Sprintf("%s-%s", kind, entityID)

	s.mu.Lock()
	now := s.now()
	if last, ok := s.recent[key]; ok && now.Sub(last) < dedupeWindow {
		s.mu.Unlock()
		return false
	}
	s.recent[key] = now
	s.sweepLocked(now)
	s.mu.Unlock()

	s.sink.Notify(Notification{
		ID:      fmt.Sprintf("%s-%d", key, now.UnixMilli()),
		Title:   title,
		Message: message,
		Variant: VariantSuccess,
	})
	return true
}

// Error emits a failure notification. Failures are never deduplicated: the
// user should see every failed attempt.
func (s *Service) Error(title, message string) {
	s.sink.Notify(Notification{
		ID:      fmt.Sprintf("error-%d", s.now().UnixMilli()),
		Title:   title,
		Message: message,
		Variant: VariantDestructive,
	})
}

func (s *Service) sweepLocked(now time.Time) {
	for key, at := range s.recent {
		if now.Sub(at) > sweepAfter {
			delete(s.recent, key)
		}
	}
}
