package repository

import (
	"context"
	"errors"

	"verdant/internal/models"

	"gorm.io/gorm"
)

// OperatorRepository defines the interface for operator account lookups.
type OperatorRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Operator, error)
	GetByID(ctx context.Context, id uint) (*models.Operator, error)
	Create(ctx context.Context, operator *models.Operator) error
}

type operatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository creates a new operator repository.
func NewOperatorRepository(db *gorm.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

// GetByEmail returns the operator with the given email, or nil when no such
// account exists.
func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var operator models.Operator
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&operator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id uint) (*models.Operator, error) {
	var operator models.Operator
	err := r.db.WithContext(ctx).First(&operator, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}
