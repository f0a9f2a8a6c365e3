package repository

import (
	"meetboard/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultBoardSlotRepository struct {
	db *gorm.DB
}

func NewBoardSlotRepository(db *gorm.DB) *DefaultBoardSlotRepository {
	return &DefaultBoardSlotRepository{db: db}
}

func (b *DefaultBoardSlotRepository) FindAll() ([]*entity.BoardSlot, error) {
	var refs []*entity.BoardSlot
	err := b.db.Order("slot asc").Find(&refs).Error
	return refs, err
}

// Save inserts or replaces the reference for the slot.
func (b *DefaultBoardSlotRepository) Save(ref *entity.BoardSlot) error {
	return b.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(ref).Error
}

func (b *DefaultBoardSlotRepository) DeleteAll() error {
	return b.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.BoardSlot{}).Error
}
