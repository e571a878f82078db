package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/restopos/backend/models"
)

// ActivityService appends to the audit trail. Failures are logged by the
// caller but never fail the action being audited.
type ActivityService struct {
	DB *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{DB: db}
}

func (s *ActivityService) Record(userID *uint, action, entity, entityID, details string) error {
	entry := models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	return s.DB.Create(&entry).Error
}

// Recent returns the latest entries, newest first.
func (s *ActivityService) Recent(limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.ActivityLog
	if err := s.DB.Order("created_at desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
