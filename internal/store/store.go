package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"office-status-backend/internal/model"
)

// Sentinel errors returned by the store. Handlers map these onto the HTTP
// error taxonomy.
var (
	ErrOfficeExists   = errors.New("office already exists")
	ErrOfficeNotFound = errors.New("office not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrNotFound       = errors.New("record not found")
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateOffice(ctx context.Context, name string) (*model.Office, error)
	OfficeByName(ctx context.Context, name string) (*model.Office, error)
	OfficeByID(ctx context.Context, id int64) (*model.Office, error)
	AvailableOffices(ctx context.Context) ([]model.Office, error)

	RegisterUser(ctx context.Context, user *model.User, officeName string) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)

	UpsertStatus(ctx context.Context, officeID int64, message string) error
	StatusByOfficeID(ctx context.Context, officeID int64) (*model.OfficeStatus, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for callers that compose their own
// queries, such as the subscription handlers and the notification pool.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CreateOffice inserts a new office with a unique name. The pre-check gives
// a friendly error; the unique index on offices.name is the backstop for
// concurrent inserts of the same name.
func (s *gormStore) CreateOffice(ctx context.Context, name string) (*model.Office, error) {
	office := model.Office{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Office{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrOfficeExists
		}
		return tx.Create(&office).Error
	})
	if err != nil {
		return nil, err
	}
	return &office, nil
}

func (s *gormStore) OfficeByName(ctx context.Context, name string) (*model.Office, error) {
	var office model.Office
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&office).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}
	return &office, nil
}

func (s *gormStore) OfficeByID(ctx context.Context, id int64) (*model.Office, error) {
	var office model.Office
	if err := s.db.WithContext(ctx).First(&office, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}
	return &office, nil
}

// AvailableOffices returns offices that have no registered users.
func (s *gormStore) AvailableOffices(ctx context.Context) ([]model.Office, error) {
	var offices []model.Office
	err := s.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM users WHERE users.office_id = offices.id)").
		Order("id").
		Find(&offices).Error
	if err != nil {
		return nil, err
	}
	return offices, nil
}

// RegisterUser resolves the office by name and inserts the user in a single
// transaction. user.PasswordHash must already be hashed by the caller.
func (s *gormStore) RegisterUser(ctx context.Context, user *model.User, officeName string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var office model.Office
		if err := tx.Where("name = ?", officeName).First(&office).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOfficeNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailExists
		}

		user.OfficeID = office.ID
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) UserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertStatus atomically creates or replaces the status row for an office.
// Keyed on the office_id unique index so two concurrent updates can never
// leave duplicate rows behind.
func (s *gormStore) UpsertStatus(ctx context.Context, officeID int64, message string) error {
	status := model.OfficeStatus{OfficeID: officeID, StatusMessage: message}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "office_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status_message", "updated_at"}),
	}).Create(&status).Error
	if err != nil {
		return fmt.Errorf("failed to upsert status for office %d: %w", officeID, err)
	}
	return nil
}

func (s *gormStore) StatusByOfficeID(ctx context.Context, officeID int64) (*model.OfficeStatus, error) {
	var status model.OfficeStatus
	if err := s.db.WithContext(ctx).Where("office_id = ?", officeID).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}
