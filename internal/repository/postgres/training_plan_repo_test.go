package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"trainmate/internal/domain"
	"trainmate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test an isolated in-memory database with foreign key
// enforcement on, so delete cascades behave like the real store.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func seedPlanOwner(t *testing.T, db *gorm.DB) (userID, clientID uuid.UUID) {
	t.Helper()
	userID = uuid.New()
	clientID = uuid.New()
	user := domain.User{ID: userID, Name: "Trainer", Email: "trainer@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	client := domain.Client{ID: clientID, UserID: userID, Name: "Mario Rossi", Email: "mario@example.com", Status: domain.ClientStatusActive}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}
	return userID, clientID
}

func TestTrainingPlanCreateRoundtrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	created, err := repo.Create(ctx, &domain.TrainingPlan{
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano A",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "Giorno 1", Exercises: []domain.Exercise{
				{Name: "Panca piana", Sets: 4, Reps: "8-10"},
				{Name: "Squat", Sets: 5, Reps: "5"},
			}},
			{Title: "Giorno 2", Exercises: []domain.Exercise{
				{Name: "Stacco", Sets: 3, Reps: "5"},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ExerciseGroups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got.ExerciseGroups))
	}
	for i, g := range got.ExerciseGroups {
		if g.Order != i+1 {
			t.Errorf("group %q order = %d, want %d", g.Title, g.Order, i+1)
		}
		for j, ex := range g.Exercises {
			if ex.Order != j+1 {
				t.Errorf("exercise %q order = %d, want %d", ex.Name, ex.Order, j+1)
			}
			if ex.GroupID == nil || *ex.GroupID != g.ID {
				t.Errorf("exercise %q not linked to its group", ex.Name)
			}
		}
	}
	if got.ExerciseGroups[0].Title != "Giorno 1" || got.ExerciseGroups[1].Title != "Giorno 2" {
		t.Errorf("group titles lost: %q, %q", got.ExerciseGroups[0].Title, got.ExerciseGroups[1].Title)
	}
	if len(got.ExerciseGroups[0].Exercises) != 2 || len(got.ExerciseGroups[1].Exercises) != 1 {
		t.Errorf("exercise counts wrong: %d, %d", len(got.ExerciseGroups[0].Exercises), len(got.ExerciseGroups[1].Exercises))
	}
	if got.ExerciseGroups[0].Exercises[1].Reps != "5" {
		t.Errorf("reps not stored: %q", got.ExerciseGroups[0].Exercises[1].Reps)
	}
}

func TestTrainingPlanCreateLegacyFlat(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	created, err := repo.Create(ctx, &domain.TrainingPlan{
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano legacy",
		Exercises: []domain.Exercise{
			{Name: "Panca piana", Sets: 4, Reps: "8"},
			{Name: "Rematore", Sets: 3, Reps: "10"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ExerciseGroups) != 1 {
		t.Fatalf("expected 1 synthetic group, got %d", len(got.ExerciseGroups))
	}
	g := got.ExerciseGroups[0]
	if g.Title != domain.DefaultGroupTitle {
		t.Errorf("group title = %q, want %q", g.Title, domain.DefaultGroupTitle)
	}
	if g.Order != 1 {
		t.Errorf("group order = %d, want 1", g.Order)
	}
	if len(g.Exercises) != 2 || g.Exercises[0].Name != "Panca piana" || g.Exercises[1].Name != "Rematore" {
		t.Fatalf("exercises not folded into the group: %+v", g.Exercises)
	}
}

func TestTrainingPlanCreateValidation(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.TrainingPlan{Name: "no owner"})
	if err == nil {
		t.Fatal("expected error for plan without client and user")
	}
}

func TestTrainingPlanUpdateReconciliation(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	created, err := repo.Create(ctx, &domain.TrainingPlan{
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano A",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "A", Exercises: []domain.Exercise{
				{Name: "x1", Sets: 3, Reps: "10"},
				{Name: "x2", Sets: 3, Reps: "10"},
			}},
			{Title: "B", Exercises: []domain.Exercise{
				{Name: "x3", Sets: 3, Reps: "10"},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	groupA := created.ExerciseGroups[0]
	groupB := created.ExerciseGroups[1]
	x1 := groupA.Exercises[0]

	// Keep A (retitled, x1 kept with more sets, x2 dropped, y added), drop B,
	// add C.
	updated, err := repo.Update(ctx, &domain.TrainingPlan{
		ID:       created.ID,
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano A rev",
		ExerciseGroups: []domain.ExerciseGroup{
			{ID: groupA.ID, Title: "A rinominato", Exercises: []domain.Exercise{
				{ID: x1.ID, Name: "x1", Sets: 5, Reps: "8"},
				{Name: "y", Sets: 3, Reps: "12"},
			}},
			{Title: "C", Exercises: []domain.Exercise{
				{Name: "z", Sets: 2, Reps: "15"},
			}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Piano A rev" {
		t.Errorf("name = %q", updated.Name)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ExerciseGroups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got.ExerciseGroups))
	}

	gotA := got.ExerciseGroups[0]
	if gotA.ID != groupA.ID {
		t.Errorf("kept group lost its identity: %s != %s", gotA.ID, groupA.ID)
	}
	if gotA.Title != "A rinominato" || gotA.Order != 1 {
		t.Errorf("group A not updated: title=%q order=%d", gotA.Title, gotA.Order)
	}
	if len(gotA.Exercises) != 2 {
		t.Fatalf("group A has %d exercises, want 2", len(gotA.Exercises))
	}
	if gotA.Exercises[0].ID != x1.ID {
		t.Errorf("kept exercise lost its identity")
	}
	if gotA.Exercises[0].Sets != 5 || gotA.Exercises[0].Reps != "8" {
		t.Errorf("x1 not updated in place: %+v", gotA.Exercises[0])
	}
	if gotA.Exercises[1].Name != "y" || gotA.Exercises[1].Order != 2 {
		t.Errorf("new exercise wrong: %+v", gotA.Exercises[1])
	}

	gotC := got.ExerciseGroups[1]
	if gotC.Title != "C" || gotC.Order != 2 {
		t.Errorf("new group wrong: title=%q order=%d", gotC.Title, gotC.Order)
	}

	// B and its exercises are gone, as is x2.
	var groupCount int64
	db.Model(&domain.ExerciseGroup{}).Where("id = ?", groupB.ID).Count(&groupCount)
	if groupCount != 0 {
		t.Error("dropped group B still stored")
	}
	var exCount int64
	db.Model(&domain.Exercise{}).Where("training_plan_id = ?", created.ID).Count(&exCount)
	if exCount != 3 {
		t.Errorf("expected 3 exercises after update, got %d", exCount)
	}
}

func TestTrainingPlanUpdateLegacyFlatReusesStoredGroup(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	created, err := repo.Create(ctx, &domain.TrainingPlan{
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano legacy",
		Exercises: []domain.Exercise{
			{Name: "Panca piana", Sets: 4, Reps: "8"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	storedGroup := func() domain.ExerciseGroup {
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatal(err)
		}
		return got.ExerciseGroups[0]
	}()

	// A legacy client sends a flat list again: the stored group must be reused
	// with its title intact, not replaced.
	_, err = repo.Update(ctx, &domain.TrainingPlan{
		ID:       created.ID,
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano legacy",
		Exercises: []domain.Exercise{
			{ID: storedGroup.Exercises[0].ID, Name: "Panca piana", Sets: 5, Reps: "6"},
			{Name: "Croci", Sets: 3, Reps: "12"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ExerciseGroups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got.ExerciseGroups))
	}
	g := got.ExerciseGroups[0]
	if g.ID != storedGroup.ID {
		t.Error("stored group was replaced instead of reused")
	}
	if g.Title != domain.DefaultGroupTitle {
		t.Errorf("stored title not kept: %q", g.Title)
	}
	if len(g.Exercises) != 2 || g.Exercises[0].Sets != 5 {
		t.Errorf("exercises not reconciled: %+v", g.Exercises)
	}
}

func TestTrainingPlanUpdateEmptyContentRemovesChildren(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	created, err := repo.Create(ctx, &domain.TrainingPlan{
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "A", Exercises: []domain.Exercise{{Name: "x", Sets: 3, Reps: "10"}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = repo.Update(ctx, &domain.TrainingPlan{
		ID:       created.ID,
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano svuotato",
	})
	if err != nil {
		t.Fatal(err)
	}

	var groups, exercises int64
	db.Model(&domain.ExerciseGroup{}).Where("training_plan_id = ?", created.ID).Count(&groups)
	db.Model(&domain.Exercise{}).Where("training_plan_id = ?", created.ID).Count(&exercises)
	if groups != 0 || exercises != 0 {
		t.Errorf("children survived an empty update: groups=%d exercises=%d", groups, exercises)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Piano svuotato" {
		t.Errorf("scalars not updated: %q", got.Name)
	}
}

func TestTrainingPlanUpdateNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)

	_, err := repo.Update(context.Background(), &domain.TrainingPlan{ID: uuid.New(), Name: "ghost"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTrainingPlanDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	created, err := repo.Create(ctx, &domain.TrainingPlan{
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "A", Exercises: []domain.Exercise{{Name: "x", Sets: 3, Reps: "10"}}},
			{Title: "B", Exercises: []domain.Exercise{{Name: "y", Sets: 3, Reps: "10"}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	var groups, exercises int64
	db.Model(&domain.ExerciseGroup{}).Where("training_plan_id = ?", created.ID).Count(&groups)
	db.Model(&domain.Exercise{}).Where("training_plan_id = ?", created.ID).Count(&exercises)
	if groups != 0 || exercises != 0 {
		t.Errorf("cascade left orphans: groups=%d exercises=%d", groups, exercises)
	}

	if err := repo.Delete(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSetExerciseCompletedReturnsPlanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	created, err := repo.Create(ctx, &domain.TrainingPlan{
		UserID:   userID,
		ClientID: clientID,
		Name:     "Piano",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "A", Exercises: []domain.Exercise{{Name: "x", Sets: 3, Reps: "10"}}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	exerciseID := created.ExerciseGroups[0].Exercises[0].ID

	planID, err := repo.SetExerciseCompleted(ctx, exerciseID, userID, true)
	if err != nil {
		t.Fatal(err)
	}
	if planID != created.ID {
		t.Errorf("plan id = %s, want %s", planID, created.ID)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.ExerciseGroups[0].Exercises[0].Completed {
		t.Error("completed flag not persisted")
	}

	if _, err := repo.SetExerciseCompleted(ctx, uuid.New(), userID, true); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Another user's id must not reach the exercise.
	if _, err := repo.SetExerciseCompleted(ctx, exerciseID, uuid.New(), false); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	got, err = repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.ExerciseGroups[0].Exercises[0].Completed {
		t.Error("foreign owner write must not change the flag")
	}
}

func TestTrainingPlanDeleteByClient(t *testing.T) {
	db := openTestDB(t)
	repo := NewTrainingPlanRepository(db)
	ctx := context.Background()
	userID, clientID := seedPlanOwner(t, db)

	for i := 0; i < 2; i++ {
		_, err := repo.Create(ctx, &domain.TrainingPlan{
			UserID:   userID,
			ClientID: clientID,
			Name:     fmt.Sprintf("Piano %d", i+1),
			ExerciseGroups: []domain.ExerciseGroup{
				{Title: "A", Exercises: []domain.Exercise{{Name: "x", Sets: 3, Reps: "10"}}},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := repo.DeleteByClient(ctx, clientID); err != nil {
		t.Fatal(err)
	}
	var plans, groups, exercises int64
	db.Model(&domain.TrainingPlan{}).Where("client_id = ?", clientID).Count(&plans)
	db.Model(&domain.ExerciseGroup{}).Count(&groups)
	db.Model(&domain.Exercise{}).Count(&exercises)
	if plans != 0 || groups != 0 || exercises != 0 {
		t.Errorf("records left behind: plans=%d groups=%d exercises=%d", plans, groups, exercises)
	}

	// A client with no plans is a no-op, not an error.
	if err := repo.DeleteByClient(ctx, uuid.New()); err != nil {
		t.Fatal(err)
	}
}
