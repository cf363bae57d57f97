package postgres

import (
	"context"
	"errors"
	"time"

	"trainmate/internal/domain"
	"trainmate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderColumn quotes the reserved "order" column for ORDER BY clauses.
var orderColumn = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

// trainingPlanRepository implements repository.TrainingPlanRepository.
//
// A composed plan is persisted across three tables. Writes are sequential and
// not transactional: a failure partway leaves the earlier rows in place (a
// plan row can survive childless). Order values are always rewritten from
// array position; persisted order is never trusted during reconciliation.
type trainingPlanRepository struct {
	db *gorm.DB
}

// NewTrainingPlanRepository creates a new TrainingPlan repository.
func NewTrainingPlanRepository(db *gorm.DB) repository.TrainingPlanRepository {
	return &trainingPlanRepository{db: db}
}

// Create inserts the plan row first to obtain its id, then its groups, then
// each group's exercises. Legacy flat input is folded into a single default
// group by Content() before any rows are written.
func (r *trainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	if plan.ClientID == uuid.Nil || plan.UserID == uuid.Nil || plan.Name == "" {
		return nil, errors.New("plan requires clientId, userId, and name")
	}
	db := r.db.WithContext(ctx)
	now := time.Now().UTC()

	row := *plan
	row.ExerciseGroups = nil
	row.Exercises = nil
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return nil, err
	}

	content := plan.Content()
	if content.Empty() {
		return &row, nil
	}

	groups := make([]domain.ExerciseGroup, len(content.Groups))
	for i, g := range content.Groups {
		groups[i] = domain.ExerciseGroup{
			ID:             uuid.New(),
			TrainingPlanID: row.ID,
			Title:          g.Title,
			Order:          i + 1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	if err := db.Omit(clause.Associations).Create(&groups).Error; err != nil {
		return nil, err
	}

	for i, g := range content.Groups {
		if len(g.Exercises) == 0 {
			continue
		}
		groupID := groups[i].ID
		exercises := make([]domain.Exercise, len(g.Exercises))
		for j, ex := range g.Exercises {
			exercises[j] = domain.Exercise{
				ID:             uuid.New(),
				TrainingPlanID: row.ID,
				GroupID:        &groupID,
				Name:           ex.Name,
				Sets:           ex.Sets,
				Reps:           ex.Reps,
				Notes:          ex.Notes,
				VideoLink:      ex.VideoLink,
				Order:          j + 1,
				Completed:      ex.Completed,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
		}
		if err := db.Create(&exercises).Error; err != nil {
			return nil, err
		}
		groups[i].Exercises = exercises
	}

	row.ExerciseGroups = groups
	return &row, nil
}

// Update rewrites the plan scalars, then reconciles groups against storage:
// groups with a matching id are updated in place and their exercises
// reconciled, groups without an id are inserted fresh, and stored groups
// absent from the new state are deleted (cascading to their exercises).
// Moving an exercise between groups in one edit is treated as delete-from-old
// plus insert-into-new; id matching is scoped to the target group.
func (r *trainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) (*domain.TrainingPlan, error) {
	if plan.ID == uuid.Nil {
		return nil, errors.New("training plan ID is required for update")
	}
	db := r.db.WithContext(ctx)
	now := time.Now().UTC()

	res := db.Model(&domain.TrainingPlan{}).Where("id = ?", plan.ID).Updates(map[string]interface{}{
		"name":        plan.Name,
		"description": plan.Description,
		"client_id":   plan.ClientID,
		"updated_at":  now,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	var stored []domain.ExerciseGroup
	if err := db.Where("training_plan_id = ?", plan.ID).Order(orderColumn).Find(&stored).Error; err != nil {
		return nil, err
	}
	storedByID := make(map[uuid.UUID]domain.ExerciseGroup, len(stored))
	for _, g := range stored {
		storedByID[g.ID] = g
	}

	content := plan.Content()
	groups := content.Groups
	if len(plan.ExerciseGroups) == 0 && len(plan.Exercises) > 0 && len(stored) > 0 {
		// Legacy flat input against a plan that already has a group: reconcile
		// the exercises into the first stored group rather than replacing it.
		groups[0].ID = stored[0].ID
		groups[0].Title = stored[0].Title
	}

	kept := make(map[uuid.UUID]bool, len(groups))
	result := make([]domain.ExerciseGroup, 0, len(groups))
	for i, g := range groups {
		order := i + 1
		if g.ID != uuid.Nil {
			if _, ok := storedByID[g.ID]; ok {
				err := db.Model(&domain.ExerciseGroup{}).Where("id = ?", g.ID).Updates(map[string]interface{}{
					"title":      g.Title,
					"order":      order,
					"updated_at": now,
				}).Error
				if err != nil {
					return nil, err
				}
				kept[g.ID] = true
				exercises, err := r.reconcileExercises(db, plan.ID, g.ID, g.Exercises, now)
				if err != nil {
					return nil, err
				}
				result = append(result, domain.ExerciseGroup{
					ID:             g.ID,
					TrainingPlanID: plan.ID,
					Title:          g.Title,
					Order:          order,
					Exercises:      exercises,
					UpdatedAt:      now,
				})
				continue
			}
		}
		created, err := r.insertGroup(db, plan.ID, g, order, now)
		if err != nil {
			return nil, err
		}
		result = append(result, *created)
	}

	var obsolete []uuid.UUID
	for _, g := range stored {
		if !kept[g.ID] {
			obsolete = append(obsolete, g.ID)
		}
	}
	if len(obsolete) > 0 {
		if err := db.Where("id IN ?", obsolete).Delete(&domain.ExerciseGroup{}).Error; err != nil {
			return nil, err
		}
	}
	if content.Empty() {
		// Groupless legacy rows are not reached by the group cascade.
		if err := db.Where("training_plan_id = ? AND group_id IS NULL", plan.ID).Delete(&domain.Exercise{}).Error; err != nil {
			return nil, err
		}
	}

	updated := *plan
	updated.Exercises = nil
	updated.ExerciseGroups = result
	updated.UpdatedAt = now
	return &updated, nil
}

// insertGroup writes a new group and all of its exercises fresh.
func (r *trainingPlanRepository) insertGroup(db *gorm.DB, planID uuid.UUID, g domain.ExerciseGroup, order int, now time.Time) (*domain.ExerciseGroup, error) {
	group := domain.ExerciseGroup{
		ID:             uuid.New(),
		TrainingPlanID: planID,
		Title:          g.Title,
		Order:          order,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Omit(clause.Associations).Create(&group).Error; err != nil {
		return nil, err
	}
	if len(g.Exercises) == 0 {
		return &group, nil
	}
	groupID := group.ID
	exercises := make([]domain.Exercise, len(g.Exercises))
	for j, ex := range g.Exercises {
		exercises[j] = domain.Exercise{
			ID:             uuid.New(),
			TrainingPlanID: planID,
			GroupID:        &groupID,
			Name:           ex.Name,
			Sets:           ex.Sets,
			Reps:           ex.Reps,
			Notes:          ex.Notes,
			VideoLink:      ex.VideoLink,
			Order:          j + 1,
			Completed:      ex.Completed,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	if err := db.Create(&exercises).Error; err != nil {
		return nil, err
	}
	group.Exercises = exercises
	return &group, nil
}

// reconcileExercises diffs the wanted list against the group's stored rows:
// matching ids are updated in place, rows without a matching id are inserted
// fresh, and stored rows missing from the wanted list are deleted. Every
// order value comes from array position.
func (r *trainingPlanRepository) reconcileExercises(db *gorm.DB, planID, groupID uuid.UUID, want []domain.Exercise, now time.Time) ([]domain.Exercise, error) {
	var stored []domain.Exercise
	if err := db.Where("training_plan_id = ? AND group_id = ?", planID, groupID).Find(&stored).Error; err != nil {
		return nil, err
	}
	storedByID := make(map[uuid.UUID]domain.Exercise, len(stored))
	for _, ex := range stored {
		storedByID[ex.ID] = ex
	}

	gid := groupID
	kept := make(map[uuid.UUID]bool, len(want))
	result := make([]domain.Exercise, 0, len(want))
	for i, ex := range want {
		order := i + 1
		if ex.ID != uuid.Nil {
			if _, ok := storedByID[ex.ID]; ok {
				err := db.Model(&domain.Exercise{}).Where("id = ?", ex.ID).Updates(map[string]interface{}{
					"name":       ex.Name,
					"sets":       ex.Sets,
					"reps":       ex.Reps,
					"notes":      ex.Notes,
					"video_link": ex.VideoLink,
					"order":      order,
					"completed":  ex.Completed,
					"updated_at": now,
				}).Error
				if err != nil {
					return nil, err
				}
				kept[ex.ID] = true
				updated := ex
				updated.TrainingPlanID = planID
				updated.GroupID = &gid
				updated.Order = order
				updated.UpdatedAt = now
				result = append(result, updated)
				continue
			}
		}
		// No id, or an id from another group (a cross-group move): insert
		// fresh. The stale row, if any, falls out of its old group's diff.
		fresh := domain.Exercise{
			ID:             uuid.New(),
			TrainingPlanID: planID,
			GroupID:        &gid,
			Name:           ex.Name,
			Sets:           ex.Sets,
			Reps:           ex.Reps,
			Notes:          ex.Notes,
			VideoLink:      ex.VideoLink,
			Order:          order,
			Completed:      ex.Completed,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := db.Create(&fresh).Error; err != nil {
			return nil, err
		}
		result = append(result, fresh)
	}

	var obsolete []uuid.UUID
	for _, ex := range stored {
		if !kept[ex.ID] {
			obsolete = append(obsolete, ex.ID)
		}
	}
	if len(obsolete) > 0 {
		if err := db.Where("id IN ?", obsolete).Delete(&domain.Exercise{}).Error; err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Delete removes the plan row; groups and exercises go with it through the
// store's cascade constraints.
func (r *trainingPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.TrainingPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByID assembles the composed shape: groups ordered by position, each with
// its exercises ordered by position. A plan with no groups falls back to its
// ungrouped legacy exercises under Exercises only.
func (r *trainingPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingPlan, error) {
	db := r.db.WithContext(ctx)

	var plan domain.TrainingPlan
	if err := db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var groups []domain.ExerciseGroup
	if err := db.Where("training_plan_id = ?", id).Order(orderColumn).Find(&groups).Error; err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		var exercises []domain.Exercise
		if err := db.Where("training_plan_id = ?", id).Order(orderColumn).Find(&exercises).Error; err != nil {
			return nil, err
		}
		plan.Exercises = exercises
		return &plan, nil
	}

	for i := range groups {
		var exercises []domain.Exercise
		err := db.Where("training_plan_id = ? AND group_id = ?", id, groups[i].ID).
			Order(orderColumn).Find(&exercises).Error
		if err != nil {
			return nil, err
		}
		groups[i].Exercises = exercises
	}
	plan.ExerciseGroups = groups
	return &plan, nil
}

// ListByUser returns the user's plans without children, newest first.
func (r *trainingPlanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TrainingPlan, error) {
	var plans []domain.TrainingPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// ListByClient returns a client's plans without children, newest first.
func (r *trainingPlanRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.TrainingPlan, error) {
	var plans []domain.TrainingPlan
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// SetExerciseCompleted flips the completed flag and reports the owning plan.
// The update only touches exercises under plans owned by userID; anything
// else counts as not found.
func (r *trainingPlanRepository) SetExerciseCompleted(ctx context.Context, exerciseID, userID uuid.UUID, completed bool) (uuid.UUID, error) {
	db := r.db.WithContext(ctx)
	ownedPlans := db.Model(&domain.TrainingPlan{}).Select("id").Where("user_id = ?", userID)
	res := db.Model(&domain.Exercise{}).
		Where("id = ? AND training_plan_id IN (?)", exerciseID, ownedPlans).
		Updates(map[string]interface{}{
			"completed":  completed,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return uuid.Nil, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, repository.ErrNotFound
	}
	var exercise domain.Exercise
	if err := db.Select("training_plan_id").First(&exercise, "id = ?", exerciseID).Error; err != nil {
		return uuid.Nil, err
	}
	return exercise.TrainingPlanID, nil
}

// DeleteByClient removes every plan of a client with explicit sequential
// deletes (exercises, then groups, then plans), mirroring the application-level
// cascade used when a client is removed.
func (r *trainingPlanRepository) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	db := r.db.WithContext(ctx)

	var planIDs []uuid.UUID
	err := db.Model(&domain.TrainingPlan{}).Where("client_id = ?", clientID).Pluck("id", &planIDs).Error
	if err != nil {
		return err
	}
	if len(planIDs) == 0 {
		return nil
	}
	if err := db.Where("training_plan_id IN ?", planIDs).Delete(&domain.Exercise{}).Error; err != nil {
		return err
	}
	if err := db.Where("training_plan_id IN ?", planIDs).Delete(&domain.ExerciseGroup{}).Error; err != nil {
		return err
	}
	return db.Where("client_id = ?", clientID).Delete(&domain.TrainingPlan{}).Error
}
