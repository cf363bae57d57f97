package service

import (
	"context"
	"errors"
	"log"

	"trainmate/internal/cache"
	"trainmate/internal/domain"
	"trainmate/internal/notify"
	"trainmate/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrUnauthenticated  = errors.New("user not authenticated")
	ErrPlanNotFound     = errors.New("training plan not found")
	ErrPlanAccessDenied = errors.New("training plan does not belong to this user")
)

// TrainingPlanService orchestrates plan mutations with the repository and
// keeps the query cache consistent: each successful mutation invalidates the
// affected keys and then patches the cached lists in place, so readers see the
// result immediately while an authoritative refetch is pending.
type TrainingPlanService interface {
	Create(ctx context.Context, userID uuid.UUID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error)
	Update(ctx context.Context, userID uuid.UUID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error)
	Delete(ctx context.Context, userID uuid.UUID, planID uuid.UUID) error
	Get(ctx context.Context, userID, planID uuid.UUID) (*domain.TrainingPlan, error)
	// GetShared returns a plan for the unauthenticated shared view.
	GetShared(ctx context.Context, planID uuid.UUID) (*domain.TrainingPlan, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.TrainingPlan, error)
	ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.TrainingPlan, error)
	SetExerciseCompleted(ctx context.Context, userID, exerciseID uuid.UUID, completed bool) error
}

type trainingPlanService struct {
	planRepo repository.TrainingPlanRepository
	cache    *cache.Store
	notifier *notify.Service
}

// NewTrainingPlanService creates a new instance of trainingPlanService.
func NewTrainingPlanService(planRepo repository.TrainingPlanRepository, store *cache.Store, notifier *notify.Service) TrainingPlanService {
	return &trainingPlanService{
		planRepo: planRepo,
		cache:    store,
		notifier: notifier,
	}
}

// Create persists a new plan, then syncs the cache: the plan lists are
// invalidated and the new plan is prepended to them so it shows up first.
func (s *trainingPlanService) Create(ctx context.Context, userID uuid.UUID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	plan.UserID = userID

	created, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		log.Printf("ERROR: create training plan for client %s: %v", plan.ClientID, err)
		s.notifier.Error("Errore", "Impossibile creare il piano di allenamento.")
		return nil, err
	}

	s.cache.Invalidate(
		cache.TrainingPlansKey(userID),
		cache.ClientTrainingPlansKey(created.ClientID),
	)
	cache.Prepend(s.cache, cache.TrainingPlansKey(userID), *created)
	cache.Prepend(s.cache, cache.ClientTrainingPlansKey(created.ClientID), *created)
	s.cache.Set(cache.TrainingPlanKey(created.ID), *created)

	s.notifier.Success(notify.TrainingPlanCreated, created.ID.String(),
		"Piano creato", "Il piano di allenamento è stato creato con successo.")
	return created, nil
}

// Update rewrites a plan, then syncs the cache: both list entries for the plan
// are replaced in place and the single-plan entry is overwritten.
func (s *trainingPlanService) Update(ctx context.Context, userID uuid.UUID, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := s.authorize(ctx, userID, plan.ID); err != nil {
		return nil, err
	}
	plan.UserID = userID

	updated, err := s.planRepo.Update(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		log.Printf("ERROR: update training plan %s: %v", plan.ID, err)
		s.notifier.Error("Errore", "Impossibile aggiornare il piano di allenamento.")
		return nil, err
	}

	s.cache.Invalidate(
		cache.TrainingPlansKey(userID),
		cache.ClientTrainingPlansKey(updated.ClientID),
		cache.TrainingPlanKey(updated.ID),
	)
	match := func(p domain.TrainingPlan) bool { return p.ID == updated.ID }
	cache.ReplaceWhere(s.cache, cache.TrainingPlansKey(userID), *updated, match)
	cache.ReplaceWhere(s.cache, cache.ClientTrainingPlansKey(updated.ClientID), *updated, match)
	s.cache.Set(cache.TrainingPlanKey(updated.ID), *updated)

	s.notifier.Success(notify.TrainingPlanUpdated, updated.ID.String(),
		"Piano aggiornato", "Il piano di allenamento è stato aggiornato con successo.")
	return updated, nil
}

// Delete removes a plan, then syncs the cache: the plan is dropped from both
// lists and its single-plan entry is removed so a stale read cannot
// resurrect it.
func (s *trainingPlanService) Delete(ctx context.Context, userID uuid.UUID, planID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	// Ownership comes from storage, never from the cache: any authenticated
	// read may have warmed the single-plan entry. The same read yields the
	// client id needed to target the per-client list.
	stored, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if stored.UserID != userID {
		return ErrPlanAccessDenied
	}

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		log.Printf("ERROR: delete training plan %s: %v", planID, err)
		s.notifier.Error("Errore", "Impossibile eliminare il piano di allenamento.")
		return err
	}

	keys := []cache.Key{
		cache.TrainingPlansKey(userID),
		cache.ClientTrainingPlansKey(stored.ClientID),
	}
	s.cache.Invalidate(keys...)
	match := func(p domain.TrainingPlan) bool { return p.ID == planID }
	for _, key := range keys {
		cache.RemoveWhere(s.cache, key, match)
	}
	s.cache.Remove(cache.TrainingPlanKey(planID))

	s.notifier.Success(notify.TrainingPlanDeleted, planID.String(),
		"Piano eliminato", "Il piano di allenamento è stato eliminato.")
	return nil
}

// Get returns one of the user's plans, serving a fresh cached copy when one
// exists. Anonymous reads go through GetShared instead; the authenticated
// route is owner scoped.
func (s *trainingPlanService) Get(ctx context.Context, userID, planID uuid.UUID) (*domain.TrainingPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if value, ok, stale := s.cache.Lookup(cache.TrainingPlanKey(planID)); ok && !stale {
		if cached, ok := value.(domain.TrainingPlan); ok && cached.UserID == userID {
			return &cached, nil
		}
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	s.cache.Set(cache.TrainingPlanKey(plan.ID), *plan)
	return plan, nil
}

// GetShared reads a plan for the public shared view. It bypasses the cache:
// shared reads come from anonymous sessions and must always reflect storage.
func (s *trainingPlanService) GetShared(ctx context.Context, planID uuid.UUID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// List returns every plan of the user, newest first.
func (s *trainingPlanService) List(ctx context.Context, userID uuid.UUID) ([]domain.TrainingPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if value, ok, stale := s.cache.Lookup(cache.TrainingPlansKey(userID)); ok && !stale {
		if cached, ok := value.([]domain.TrainingPlan); ok {
			return cached, nil
		}
	}

	plans, err := s.planRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.TrainingPlansKey(userID), plans)
	return plans, nil
}

// ListByClient returns every plan assigned to one client, newest first.
func (s *trainingPlanService) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.TrainingPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if value, ok, stale := s.cache.Lookup(cache.ClientTrainingPlansKey(clientID)); ok && !stale {
		if cached, ok := value.([]domain.TrainingPlan); ok {
			return cached, nil
		}
	}

	plans, err := s.planRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.ClientTrainingPlansKey(clientID), plans)
	return plans, nil
}

// SetExerciseCompleted flips one exercise's completed flag and invalidates the
// owning plan so the next read refetches it. The write is scoped to the user's
// own plans; an exercise under someone else's plan reads as not found.
func (s *trainingPlanService) SetExerciseCompleted(ctx context.Context, userID, exerciseID uuid.UUID, completed bool) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}
	planID, err := s.planRepo.SetExerciseCompleted(ctx, exerciseID, userID, completed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		s.notifier.Error("Errore", "Impossibile aggiornare lo stato dell'esercizio.")
		return err
	}
	s.cache.Invalidate(cache.TrainingPlanKey(planID))
	return nil
}

// authorize verifies the plan belongs to userID before a mutation. A missing
// plan is not an authorization failure; Update reports it as not found.
func (s *trainingPlanService) authorize(ctx context.Context, userID, planID uuid.UUID) error {
	stored, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if stored.UserID != userID {
		return ErrPlanAccessDenied
	}
	return nil
}
