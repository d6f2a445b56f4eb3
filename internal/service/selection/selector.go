package selection

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/domain"
)

// Selector picks undelivered content. It keeps no state between calls;
// the unseen pool is re-derived from the repository every time.
type Selector struct {
	repo domain.ContentRepository
	intN func(n int) int
}

type Option func(*Selector)

// WithIntN replaces the uniform index source. Used by tests.
func WithIntN(intN func(n int) int) Option {
	return func(s *Selector) {
		s.intN = intN
	}
}

func NewSelector(repo domain.ContentRepository, opts ...Option) *Selector {
	s := &Selector{
		repo: repo,
		intN: rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UnseenPool returns every content item without a delivery record.
func (s *Selector) UnseenPool(ctx context.Context) ([]*domain.ContentItem, error) {
	items, err := s.repo.ListContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	deliveredIDs, err := s.repo.ListDeliveredContentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list delivered content ids: %w", err)
	}

	delivered := make(map[string]struct{}, len(deliveredIDs))
	for _, id := range deliveredIDs {
		delivered[id] = struct{}{}
	}

	unseen := make([]*domain.ContentItem, 0, len(items))
	for _, item := range items {
		if _, ok := delivered[item.ID]; !ok {
			unseen = append(unseen, item)
		}
	}

	return unseen, nil
}

// SelectNext returns a uniformly random unseen item, preferring items that
// carry any of preferredThemes. The theme filter only narrows the choice:
// when no unseen item matches, the whole unseen pool is used. ok is false
// only when the unseen pool is empty.
func (s *Selector) SelectNext(ctx context.Context, preferredThemes []string) (item *domain.ContentItem, ok bool, err error) {
	pool, err := s.UnseenPool(ctx)
	if err != nil {
		return nil, false, err
	}

	return s.pick(pool, preferredThemes)
}

func (s *Selector) pick(pool []*domain.ContentItem, preferredThemes []string) (*domain.ContentItem, bool, error) {
	if len(pool) == 0 {
		return nil, false, nil
	}

	if len(preferredThemes) > 0 {
		themed := make([]*domain.ContentItem, 0, len(pool))
		for _, item := range pool {
			if item.HasAnyTheme(preferredThemes) {
				themed = append(themed, item)
			}
		}
		if len(themed) > 0 {
			return themed[s.intN(len(themed))], true, nil
		}
	}

	return pool[s.intN(len(pool))], true, nil
}

func (s *Selector) IsExhausted(ctx context.Context) (bool, error) {
	pool, err := s.UnseenPool(ctx)
	if err != nil {
		return false, err
	}
	return len(pool) == 0, nil
}
