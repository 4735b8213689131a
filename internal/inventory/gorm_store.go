package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/inventory/internal/repo"
	"github.com/angelmondragon/inventory/pkg/db"
	"github.com/angelmondragon/inventory/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps the inventory in a relational database. An item's ordered
// category list lives in item_categories, one row per position.
type GormStore struct {
	repo.Base
}

// NewGormStore builds a store on top of an open db client.
func NewGormStore(client *db.Client) (*GormStore, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &GormStore{Base: repo.NewBase(client)}, nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]Category, error) {
	var rows []models.Category
	if err := s.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryFromModel(row))
	}
	return out, nil
}

func (s *GormStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	var row models.Category
	if err := s.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c := categoryFromModel(row)
	return &c, nil
}

func (s *GormStore) InsertCategory(ctx context.Context, category *Category) error {
	row := models.Category{Name: category.Name, Description: category.Description}
	if err := s.DB(ctx).Create(&row).Error; err != nil {
		return err
	}
	category.ID = row.ID
	return nil
}

func (s *GormStore) DeleteCategory(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrNotFound
	}
	res := s.DB(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}

func (s *GormStore) ListItems(ctx context.Context) ([]Item, error) {
	conn := s.DB(ctx)

	var rows []models.Item
	if err := conn.Select("id", "name", "description").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	links, err := loadLinks(conn, ids)
	if err != nil {
		return nil, err
	}
	byID, err := resolveCategories(conn, links)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		refs := linksOrEmpty(links, row.ID)
		out = append(out, Item{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			CategoryIDs: refs,
			Categories:  populate(refs, byID),
		})
	}
	return out, nil
}

func (s *GormStore) GetItem(ctx context.Context, id string) (*Item, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	conn := s.DB(ctx)

	var row models.Item
	if err := conn.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	links, err := loadLinks(conn, []string{id})
	if err != nil {
		return nil, err
	}
	byID, err := resolveCategories(conn, links)
	if err != nil {
		return nil, err
	}

	item := itemFromModel(row)
	item.CategoryIDs = linksOrEmpty(links, id)
	item.Categories = populate(item.CategoryIDs, byID)
	return &item, nil
}

func (s *GormStore) ItemsByCategory(ctx context.Context, categoryID string) ([]Item, error) {
	conn := s.DB(ctx)
	referencing := conn.Model(&models.ItemCategory{}).Select("item_id").Where("category_id = ?", categoryID)

	var rows []models.Item
	err := conn.Select("id", "name", "description").
		Where("id IN (?)", referencing).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, Item{ID: row.ID, Name: row.Name, Description: row.Description})
	}
	return out, nil
}

func (s *GormStore) InsertItem(ctx context.Context, item *Item) error {
	row := itemToModel(*item)
	err := s.Tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		return insertLinks(tx, row.ID, item.CategoryIDs)
	})
	if err != nil {
		return err
	}
	item.ID = row.ID
	return nil
}

// ReplaceItem rewrites the row and its category links in one transaction.
func (s *GormStore) ReplaceItem(ctx context.Context, item *Item) error {
	if !validUUID(item.ID) {
		return ErrNotFound
	}
	return s.Tx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).Where("id = ?", item.ID).Updates(map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"price":       item.Price,
			"stock":       item.Stock,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.ItemCategory{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, item.ID, item.CategoryIDs)
	})
}

func (s *GormStore) DeleteItem(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrNotFound
	}
	return s.Tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) CountItems(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB(ctx).Model(&models.Item{}).Count(&n).Error
	return n, err
}

func insertLinks(tx *gorm.DB, itemID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ItemCategory, 0, len(categoryIDs))
	for i, id := range categoryIDs {
		links = append(links, models.ItemCategory{ItemID: itemID, Position: i, CategoryID: id})
	}
	return tx.Create(&links).Error
}

// loadLinks returns each item's category ids in stored order.
func loadLinks(conn *gorm.DB, itemIDs []string) (map[string][]string, error) {
	out := map[string][]string{}
	if len(itemIDs) == 0 {
		return out, nil
	}
	var rows []models.ItemCategory
	if err := conn.Where("item_id IN ?", itemIDs).Order("item_id, position").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ItemID] = append(out[row.ItemID], row.CategoryID)
	}
	return out, nil
}

// resolveCategories loads every category referenced by links. References
// that are not uuids cannot name a category and are skipped.
func resolveCategories(conn *gorm.DB, links map[string][]string) (map[string]Category, error) {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, refs := range links {
		for _, ref := range refs {
			if _, ok := seen[ref]; ok || !validUUID(ref) {
				continue
			}
			seen[ref] = struct{}{}
			ids = append(ids, ref)
		}
	}

	out := map[string]Category{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Category
	if err := conn.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = categoryFromModel(row)
	}
	return out, nil
}

func linksOrEmpty(links map[string][]string, itemID string) []string {
	if refs, ok := links[itemID]; ok {
		return refs
	}
	return []string{}
}

func validUUID(id string) bool {
	return uuid.Validate(id) == nil
}

func categoryFromModel(row models.Category) Category {
	return Category{ID: row.ID, Name: row.Name, Description: row.Description}
}

func itemFromModel(row models.Item) Item {
	return Item{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Stock:       row.Stock,
	}
}

func itemToModel(item Item) models.Item {
	return models.Item{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Stock:       item.Stock,
	}
}
