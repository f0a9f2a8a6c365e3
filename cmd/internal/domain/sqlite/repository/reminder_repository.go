package repository

import (
	"meetboard/cmd/internal/domain/entity"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *DefaultReminderRepository {
	return &DefaultReminderRepository{db: db}
}

// FindSince returns the records fired at or after the cutoff.
func (r *DefaultReminderRepository) FindSince(cutoff time.Time) ([]*entity.ReminderRecord, error) {
	var records []*entity.ReminderRecord
	err := r.db.Where("fired_at >= ?", cutoff).Find(&records).Error
	return records, err
}

func (r *DefaultReminderRepository) Save(record *entity.ReminderRecord) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

// DeleteBefore removes records fired before the cutoff and reports how many went away.
func (r *DefaultReminderRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("fired_at < ?", cutoff).Delete(&entity.ReminderRecord{})
	return res.RowsAffected, res.Error
}
