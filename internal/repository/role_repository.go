package repository

import (
	"github.com/dtnguyen2107/talentpulse/internal/model"
	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByID(id uint) (*model.Role, error)
	FindAll() ([]model.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}
