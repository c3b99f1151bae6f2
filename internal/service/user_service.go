package service

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
)

// ErrUserNotFound is returned for lookups and updates on unknown users.
var ErrUserNotFound = errors.New("user not found")

// UserService handles resident account management
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Create registers a new resident account with a hashed password
func (s *UserService) Create(req model.CreateUserRequest) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		FullName:  req.FullName,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      req.Role,
		IneURL:    req.IneURL,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns one user by ID
func (s *UserService) Get(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// List returns every registered user
func (s *UserService) List() ([]model.User, error) {
	return s.userRepo.ListAll()
}

// ListNames returns the id/name directory used by chat screens
func (s *UserService) ListNames() ([]model.UserNameEntry, error) {
	return s.userRepo.ListNames()
}

// ListBuildings returns the distinct building names with residents
func (s *UserService) ListBuildings() ([]string, error) {
	return s.userRepo.ListBuildings()
}

// Update applies the non-empty fields of the request. A non-empty
// password is rehashed before storage.
func (s *UserService) Update(id uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Building != "" {
		updates["building"] = req.Building
	}
	if req.Apartment != "" {
		updates["apartment"] = req.Apartment
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.IneURL != "" {
		updates["ine_url"] = req.IneURL
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		updates["password"] = string(hashed)
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}
	return s.Get(id)
}

// Delete removes a user account
func (s *UserService) Delete(id uuid.UUID) error {
	err := s.userRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
