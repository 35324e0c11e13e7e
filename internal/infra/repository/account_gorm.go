package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// AccountGormRepository answers whether the account behind a token is still
// live. The soft delete scope keeps trashed rows out.
type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

func (r *AccountGormRepository) Exists(ctx context.Context, p auth.Principal) (bool, error) {
	q := r.db.WithContext(ctx)

	switch p.Role {
	case auth.RolePetOwner:
		q = q.Model(&models.PetOwner{}).Where("id = ?", p.ID)
	case auth.RoleBusinessOwner:
		q = q.Model(&models.BusinessOwner{}).Where("id = ?", p.ID)
	case auth.RoleStaff:
		// Staff also lose access while their business is trashed.
		q = q.Model(&models.Staff{}).
			Joins("JOIN businesses ON businesses.id = staffs.business_id AND businesses.deleted_at IS NULL").
			Where("staffs.id = ? AND staffs.business_id = ?", p.ID, p.BusinessID)
	default:
		return false, nil
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ auth.AccountStore = (*AccountGormRepository)(nil)
