package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a stocked product. Its category references live in item_categories
// so the submitted order is preserved.
type Item struct {
	ID          string          `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null;index"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric;not null"`
	Stock       int             `gorm:"column:stock;not null"`
	Categories  []ItemCategory  `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string { return "items" }

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// ItemCategory is one entry of an item's ordered category list. CategoryID is
// free text: nothing at the store level forces it to name a live category.
type ItemCategory struct {
	ItemID     string `gorm:"column:item_id;type:uuid;primaryKey"`
	Position   int    `gorm:"column:position;primaryKey;autoIncrement:false"`
	CategoryID string `gorm:"column:category_id;not null;index"`
}

func (ItemCategory) TableName() string { return "item_categories" }
