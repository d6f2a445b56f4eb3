package testutil

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

// MemoryStore is an in-process ContentRepository and PreferencesRepository
// for tests. The *Err fields inject failures into the matching calls.
type MemoryStore struct {
	mu         sync.Mutex
	content    []*domain.ContentItem
	deliveries map[string]*domain.DeliveryRecord
	prefs      *domain.SchedulePreferences

	ListErr   error
	InsertErr error
	DeleteErr error
	SaveErr   error
	PingErr   error

	InsertCalls int
}

func NewMemoryStore(items ...*domain.ContentItem) *MemoryStore {
	return &MemoryStore{
		content:    items,
		deliveries: make(map[string]*domain.DeliveryRecord),
	}
}

// NewContentItems builds n items with ids "item-0".."item-(n-1)" and the given themes.
func NewContentItems(n int, themes ...string) []*domain.ContentItem {
	items := make([]*domain.ContentItem, 0, n)
	for i := range n {
		items = append(items, &domain.ContentItem{
			ID:     itemID(i),
			Body:   "keep going",
			Author: "anonymous",
			Themes: slices.Clone(themes),
		})
	}
	return items
}

func itemID(i int) string {
	return "item-" + strconv.Itoa(i)
}

func (m *MemoryStore) ListContent(_ context.Context) ([]*domain.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return slices.Clone(m.content), nil
}

func (m *MemoryStore) ListDeliveredContentIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	ids := make([]string, 0, len(m.deliveries))
	for id := range m.deliveries {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryStore) InsertDelivery(_ context.Context, record *domain.DeliveryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertErr != nil {
		return m.InsertErr
	}
	if _, exists := m.deliveries[record.ContentID]; exists {
		return domain.ErrAlreadyDelivered
	}
	copied := *record
	m.deliveries[record.ContentID] = &copied
	return nil
}

func (m *MemoryStore) DeleteAllDeliveries(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.deliveries = make(map[string]*domain.DeliveryRecord)
	return nil
}

func (m *MemoryStore) InsertContent(_ context.Context, items []*domain.ContentItem) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	added := 0
	for _, item := range items {
		idx := slices.IndexFunc(m.content, func(c *domain.ContentItem) bool { return c.ID == item.ID })
		if idx >= 0 {
			continue
		}
		m.content = append(m.content, item)
		added++
	}
	return added, nil
}

func (m *MemoryStore) ListDeliveries(_ context.Context, limit int) ([]*domain.DeliveryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	records := make([]*domain.DeliveryRecord, 0, len(m.deliveries))
	for _, r := range m.deliveries {
		copied := *r
		records = append(records, &copied)
	}
	slices.SortFunc(records, func(a, b *domain.DeliveryRecord) int {
		return b.DeliveredAt.Compare(a.DeliveredAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *MemoryStore) UpdateDeliveryStatus(_ context.Context, contentID string, status domain.DeliveryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.deliveries[contentID]
	if !ok {
		return domain.ErrDeliveryNotFound
	}
	record.Status = status
	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return m.PingErr
}

func (m *MemoryStore) GetPreferences(_ context.Context) (*domain.SchedulePreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		return domain.DefaultSchedulePreferences(), nil
	}
	copied := *m.prefs
	return &copied, nil
}

func (m *MemoryStore) SavePreferences(_ context.Context, prefs *domain.SchedulePreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	copied := *prefs
	m.prefs = &copied
	return nil
}

// DeliveryCount returns the number of stored delivery records.
func (m *MemoryStore) DeliveryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deliveries)
}
