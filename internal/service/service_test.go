package service

import (
	"fmt"
	"testing"
	"time"

	"trainmate/internal/cache"
	"trainmate/internal/domain"
	"trainmate/internal/notify"
	"trainmate/internal/repository/postgres"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database, with a
// recording notification sink and a zero dedupe clock offset.
type testEnv struct {
	db            *gorm.DB
	cache         *cache.Store
	notifier      *notify.Service
	notifications *[]notify.Notification

	plans        TrainingPlanService
	clients      ClientService
	appointments AppointmentService
	alerts       AlertService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_fk=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := postgres.Migrate(db); err != nil {
		t.Fatal(err)
	}

	var notifications []notify.Notification
	notifier := notify.NewService(notify.SinkFunc(func(n notify.Notification) {
		notifications = append(notifications, n)
	}))
	store := cache.New()

	clientRepo := postgres.NewClientRepository(db)
	planRepo := postgres.NewTrainingPlanRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	anthroRepo := postgres.NewAnthropometricRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	return &testEnv{
		db:            db,
		cache:         store,
		notifier:      notifier,
		notifications: &notifications,
		plans:         NewTrainingPlanService(planRepo, store, notifier),
		clients: NewClientService(
			clientRepo, planRepo, appointmentRepo, anthroRepo, documentRepo, alertRepo,
			store, notifier,
		),
		appointments: NewAppointmentService(appointmentRepo, store, notifier),
		alerts:       NewAlertService(alertRepo, store),
	}
}

func (e *testEnv) seedUser(t *testing.T) uuid.UUID {
	t.Helper()
	user := domain.User{ID: uuid.New(), Name: "Trainer", Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user.ID
}

func hour(h int) time.Time {
	return time.Date(2026, 3, 2, h, 0, 0, 0, time.UTC)
}
