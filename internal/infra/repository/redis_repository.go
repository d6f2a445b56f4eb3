package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

const (
	contentKey     = "motivation:content"
	deliveriesKey  = "motivation:deliveries"
	preferencesKey = "motivation:preferences"
)

var (
	_ domain.ContentRepository     = (*RedisRepository)(nil)
	_ domain.PreferencesRepository = (*RedisRepository)(nil)
)

// RedisRepository keeps content and delivery history in two hashes keyed by
// content ID. A content ID can only have one delivery record; HSETNX
// enforces that at the store.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
	}
}

func (r *RedisRepository) ListContent(ctx context.Context) ([]*domain.ContentItem, error) {
	values, err := r.client.HVals(ctx, contentKey).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*domain.ContentItem, 0, len(values))
	for _, v := range values {
		var record contentRecord
		if err := json.Unmarshal([]byte(v), &record); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContentData, err)
		}
		items = append(items, record.toDomain())
	}
	sortContentByID(items)

	return items, nil
}

func (r *RedisRepository) ListDeliveredContentIDs(ctx context.Context) ([]string, error) {
	return r.client.HKeys(ctx, deliveriesKey).Result()
}

func (r *RedisRepository) InsertDelivery(ctx context.Context, record *domain.DeliveryRecord) error {
	if record == nil {
		return ErrInvalidDeliveryData
	}

	data, err := json.Marshal(toDeliveryRecord(record))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeliveryData, err)
	}

	created, err := r.client.HSetNX(ctx, deliveriesKey, record.ContentID, data).Result()
	if err != nil {
		return err
	}
	if !created {
		return domain.ErrAlreadyDelivered
	}

	return nil
}

func (r *RedisRepository) DeleteAllDeliveries(ctx context.Context) error {
	return r.client.Del(ctx, deliveriesKey).Err()
}

// InsertContent adds items whose ID is not stored yet with one HSETNX per
// item. Existing items are left untouched.
func (r *RedisRepository) InsertContent(ctx context.Context, items []*domain.ContentItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	payloads := make(map[string][]byte, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil || item.ID == "" {
			return 0, ErrInvalidContentData
		}
		data, err := json.Marshal(toContentRecord(item))
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidContentData, err)
		}
		if _, seen := payloads[item.ID]; !seen {
			ids = append(ids, item.ID)
		}
		payloads[item.ID] = data
	}

	cmds := make([]*redis.BoolCmd, 0, len(ids))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			cmds = append(cmds, pipe.HSetNX(ctx, contentKey, id, payloads[id]))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	added := 0
	for _, cmd := range cmds {
		if cmd.Val() {
			added++
		}
	}

	return added, nil
}

func (r *RedisRepository) ListDeliveries(ctx context.Context, limit int) ([]*domain.DeliveryRecord, error) {
	values, err := r.client.HVals(ctx, deliveriesKey).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.DeliveryRecord, 0, len(values))
	for _, v := range values {
		var record deliveryRecord
		if err := json.Unmarshal([]byte(v), &record); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDeliveryData, err)
		}
		records = append(records, record.toDomain())
	}
	sortNewestFirst(records)

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (r *RedisRepository) UpdateDeliveryStatus(ctx context.Context, contentID string, status domain.DeliveryStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidDeliveryStatus
	}

	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, deliveriesKey, contentID).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrDeliveryNotFound
			}
			return err
		}

		var record deliveryRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDeliveryData, err)
		}
		record.Status = status.String()

		updated, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDeliveryData, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, deliveriesKey, contentID, updated)
			return nil
		})
		return err
	}, deliveriesKey)
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) GetPreferences(ctx context.Context) (*domain.SchedulePreferences, error) {
	data, err := r.client.Get(ctx, preferencesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DefaultSchedulePreferences(), nil
		}
		return nil, err
	}

	var record preferencesRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreferencesData, err)
	}

	return record.toDomain()
}

func (r *RedisRepository) SavePreferences(ctx context.Context, prefs *domain.SchedulePreferences) error {
	if prefs == nil {
		return ErrInvalidPreferencesData
	}

	data, err := json.Marshal(toPreferencesRecord(prefs))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreferencesData, err)
	}

	return r.client.Set(ctx, preferencesKey, data, 0).Err()
}
