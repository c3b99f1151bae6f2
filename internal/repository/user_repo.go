package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// UserRepository handles database operations for User
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by UUID
func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAll returns every registered user
func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("full_name ASC").Find(&users).Error
	return users, err
}

// ListNames returns the lightweight id+name directory
func (r *UserRepository) ListNames() ([]model.UserNameEntry, error) {
	var entries []model.UserNameEntry
	err := r.db.Model(&model.User{}).
		Select("id", "full_name").
		Order("full_name ASC").
		Scan(&entries).Error
	return entries, err
}

// ListBuildings returns the distinct building names in use
func (r *UserRepository) ListBuildings() ([]string, error) {
	var buildings []string
	err := r.db.Model(&model.User{}).
		Where("building <> ''").
		Distinct().
		Pluck("building", &buildings).Error
	return buildings, err
}

// Update applies the given column updates to a user
func (r *UserRepository) Update(id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// Delete removes a user
func (r *UserRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
