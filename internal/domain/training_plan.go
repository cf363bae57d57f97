package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultGroupTitle is the title given to the synthetic group created when a
// plan arrives in the legacy flat-exercise shape.
const DefaultGroupTitle = "Gruppo 1"

// TrainingPlan is the top-level container for a client's workout program.
// Children can arrive in two historical shapes: ExerciseGroups (current) or a
// flat Exercises list with no group (legacy). Content() normalizes the two.
type TrainingPlan struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`

	ExerciseGroups []ExerciseGroup `gorm:"foreignKey:TrainingPlanID;constraint:OnDelete:CASCADE" json:"exercise_groups,omitempty"`
	// Legacy flat shape. When ExerciseGroups is non-empty this must be ignored.
	Exercises []Exercise `gorm:"foreignKey:TrainingPlanID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExerciseGroup is an ordered named subdivision of a plan's exercises,
// e.g. "Giorno 1: Spinta". Order is a dense 1-based position within the plan.
type ExerciseGroup struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TrainingPlanID uuid.UUID `gorm:"type:uuid;not null;index" json:"training_plan_id"`
	Title          string    `gorm:"not null" json:"title"`
	Order          int       `gorm:"column:order;not null" json:"order"`

	Exercises []Exercise `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Exercise is a single row of a plan. GroupID is nil only for legacy rows that
// predate exercise groups. Reps is free-form ("8-10", "30sec").
type Exercise struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TrainingPlanID uuid.UUID  `gorm:"type:uuid;not null;index" json:"training_plan_id"`
	GroupID        *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Name           string     `gorm:"not null" json:"name"`
	Sets           int        `gorm:"not null" json:"sets"`
	Reps           string     `gorm:"not null" json:"reps"`
	Notes          string     `json:"notes,omitempty"`
	VideoLink      string     `json:"video_link,omitempty"`
	Order          int        `gorm:"column:order;not null" json:"order"`
	Completed      bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PlanContent is the normalized shape of a plan's children: always a list of
// groups, possibly empty. Flat legacy input is folded into one synthetic group
// before any persistence logic runs, so create and update share a single path.
type PlanContent struct {
	Groups []ExerciseGroup
}

// Empty reports whether the plan has no exercises at all.
func (c PlanContent) Empty() bool {
	return len(c.Groups) == 0
}

// Content normalizes the two historical shapes. Groups win when both are set;
// a flat exercise list becomes a single group titled DefaultGroupTitle; a plan
// with neither is empty.
func (p *TrainingPlan) Content() PlanContent {
	if len(p.ExerciseGroups) > 0 {
		return PlanContent{Groups: p.ExerciseGroups}
	}
	if len(p.Exercises) > 0 {
		return PlanContent{Groups: []ExerciseGroup{{
			Title:     DefaultGroupTitle,
			Order:     1,
			Exercises: p.Exercises,
		}}}
	}
	return PlanContent{}
}
