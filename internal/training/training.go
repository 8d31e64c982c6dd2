package training

import (
	"context"
	"errors"
	"time"
)

// Training is a scheduled course for a given year.
type Training struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Year        int       `json:"year" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Training) TableName() string {
	return "trainings"
}

// Completion records a user's signed completion of a training.
type Completion struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	TrainingID string    `json:"trainingId" gorm:"index;not null"`
	UserID     string    `json:"userId" gorm:"index;not null"`
	Signature  string    `json:"signature" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Completion) TableName() string {
	return "training_completions"
}

var ErrTrainingNotFound = errors.New("training not found")

type Repository interface {
	Create(ctx context.Context, training *Training) error
	ListByYear(ctx context.Context, year int) ([]*Training, error)
	GetByID(ctx context.Context, id string) (*Training, error)
	CreateCompletion(ctx context.Context, completion *Completion) error
	ListCompletionsByUser(ctx context.Context, userID string) ([]*Completion, error)
}
