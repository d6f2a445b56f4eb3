package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

const preferencesRowID = 1

type contentModel struct {
	ID        string `gorm:"primaryKey"`
	Body      string `gorm:"not null"`
	Author    string
	Themes    datatypes.JSON
	ImageRef  string
	Source    string
	License   string
	CreatedAt time.Time
}

func (contentModel) TableName() string { return "content_items" }

type deliveryModel struct {
	ID          string    `gorm:"primaryKey"`
	ContentID   string    `gorm:"uniqueIndex;not null"`
	DeliveredAt time.Time `gorm:"index;not null"`
	DateBucket  string    `gorm:"index;not null"`
	Status      string    `gorm:"not null"`
	Tag         string
}

func (deliveryModel) TableName() string { return "delivery_records" }

type preferencesModel struct {
	ID          uint `gorm:"primaryKey"`
	Preferences datatypes.JSON
	UpdatedAt   time.Time
}

func (preferencesModel) TableName() string { return "schedule_preferences" }

var (
	_ domain.ContentRepository     = (*SQLiteRepository)(nil)
	_ domain.PreferencesRepository = (*SQLiteRepository)(nil)
)

// SQLiteRepository is the single-device store. The unique index on
// delivery_records.content_id rejects a second delivery of the same item.
type SQLiteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
	}
}

func (r *SQLiteRepository) ListContent(ctx context.Context) ([]*domain.ContentItem, error) {
	var rows []contentModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*domain.ContentItem, 0, len(rows))
	for _, row := range rows {
		var themes []string
		if len(row.Themes) > 0 {
			if err := json.Unmarshal(row.Themes, &themes); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidContentData, err)
			}
		}
		items = append(items, &domain.ContentItem{
			ID:     row.ID,
			Body:   row.Body,
			Author: row.Author,
			Themes: themes,
			Metadata: domain.ContentMetadata{
				ImageRef: row.ImageRef,
				Source:   row.Source,
				License:  row.License,
			},
		})
	}

	return items, nil
}

func (r *SQLiteRepository) ListDeliveredContentIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&deliveryModel{}).Pluck("content_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SQLiteRepository) InsertDelivery(ctx context.Context, record *domain.DeliveryRecord) error {
	if record == nil {
		return ErrInvalidDeliveryData
	}

	row := deliveryModel{
		ID:          record.ID,
		ContentID:   record.ContentID,
		DeliveredAt: record.DeliveredAt,
		DateBucket:  record.DateBucket,
		Status:      record.Status.String(),
		Tag:         record.Tag,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyDelivered
		}
		return err
	}

	return nil
}

func (r *SQLiteRepository) DeleteAllDeliveries(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&deliveryModel{}).Error
}

// InsertContent adds items whose ID is not stored yet. Existing items are
// left untouched.
func (r *SQLiteRepository) InsertContent(ctx context.Context, items []*domain.ContentItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]contentModel, 0, len(items))
	for _, item := range items {
		if item == nil || item.ID == "" {
			return 0, ErrInvalidContentData
		}
		themes, err := json.Marshal(item.Themes)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidContentData, err)
		}
		rows = append(rows, contentModel{
			ID:       item.ID,
			Body:     item.Body,
			Author:   item.Author,
			Themes:   datatypes.JSON(themes),
			ImageRef: item.Metadata.ImageRef,
			Source:   item.Metadata.Source,
			License:  item.Metadata.License,
		})
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

func (r *SQLiteRepository) ListDeliveries(ctx context.Context, limit int) ([]*domain.DeliveryRecord, error) {
	query := r.db.WithContext(ctx).Order("delivered_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []deliveryModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]*domain.DeliveryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &domain.DeliveryRecord{
			ID:          row.ID,
			ContentID:   row.ContentID,
			DeliveredAt: row.DeliveredAt,
			DateBucket:  row.DateBucket,
			Status:      domain.DeliveryStatus(row.Status),
			Tag:         row.Tag,
		})
	}

	return records, nil
}

func (r *SQLiteRepository) UpdateDeliveryStatus(ctx context.Context, contentID string, status domain.DeliveryStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidDeliveryStatus
	}

	result := r.db.WithContext(ctx).
		Model(&deliveryModel{}).
		Where("content_id = ?", contentID).
		Update("status", status.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDeliveryNotFound
	}

	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *SQLiteRepository) GetPreferences(ctx context.Context) (*domain.SchedulePreferences, error) {
	var row preferencesModel
	err := r.db.WithContext(ctx).First(&row, preferencesRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultSchedulePreferences(), nil
		}
		return nil, err
	}

	var record preferencesRecord
	if err := json.Unmarshal(row.Preferences, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferencesData, err)
	}

	return record.toDomain()
}

func (r *SQLiteRepository) SavePreferences(ctx context.Context, prefs *domain.SchedulePreferences) error {
	if prefs == nil {
		return ErrInvalidPreferencesData
	}

	data, err := json.Marshal(toPreferencesRecord(prefs))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferencesData, err)
	}

	row := preferencesModel{
		ID:          preferencesRowID,
		Preferences: datatypes.JSON(data),
	}
	return r.db.WithContext(ctx).Save(&row).Error
}
