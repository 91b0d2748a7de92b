package pattern

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory PatternStore and CategoryDirectory.
type fakeStore struct {
	patterns   map[int][]model.Pattern
	upsertErr  error
	listErr    error
	findErr    error
	categories []model.Category
	upserts    int
	mu         sync.Mutex
}

func newFakeStore(names ...string) *fakeStore {
	s := &fakeStore{patterns: make(map[int][]model.Pattern)}
	for _, name := range names {
		s.addCategory(name)
	}
	return s
}

func (s *fakeStore) addCategory(name string) model.Category {
	cat := model.Category{ID: len(s.categories) + 1, UserID: "u", Name: name}
	s.categories = append(s.categories, cat)
	return cat
}

// withPattern installs a pattern with an arbitrary weight.
func (s *fakeStore) withPattern(category, keyword string, weight float64) *fakeStore {
	for _, cat := range s.categories {
		if cat.Name == category {
			s.patterns[cat.ID] = append(s.patterns[cat.ID], model.Pattern{
				CategoryID:  cat.ID,
				Keyword:     keyword,
				Weight:      weight,
				Occurrences: 1,
			})
			return s
		}
	}
	cat := s.addCategory(category)
	s.patterns[cat.ID] = []model.Pattern{{CategoryID: cat.ID, Keyword: keyword, Weight: weight, Occurrences: 1}}
	return s
}

func (s *fakeStore) ListPatterns(_ context.Context, _ string, categoryID *int) ([]model.Pattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.Pattern
	for id, ps := range s.patterns {
		if categoryID == nil || *categoryID == id {
			out = append(out, ps...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out, nil
}

func (s *fakeStore) ListCategoryPatterns(_ context.Context, _ string) ([]model.CategoryPatterns, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.CategoryPatterns, 0, len(s.categories))
	for _, cat := range s.categories {
		out = append(out, model.CategoryPatterns{Category: cat, Patterns: s.patterns[cat.ID]})
	}
	return out, nil
}

func (s *fakeStore) UpsertPattern(_ context.Context, categoryID int, keyword string) (*model.Pattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	s.upserts++
	ps := s.patterns[categoryID]
	for i := range ps {
		if ps[i].Keyword == keyword {
			ps[i].Occurrences++
			ps[i].Weight += model.PatternWeightStep
			p := ps[i]
			return &p, nil
		}
	}
	p := model.Pattern{CategoryID: categoryID, Keyword: keyword, Weight: model.InitialPatternWeight, Occurrences: 1}
	s.patterns[categoryID] = append(ps, p)
	return &p, nil
}

func (s *fakeStore) GetCategories(_ context.Context, _ string) ([]model.Category, error) {
	return s.categories, nil
}

func (s *fakeStore) GetCategoryByName(_ context.Context, _, name string) (*model.Category, error) {
	for _, cat := range s.categories {
		if cat.Name == name {
			c := cat
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *fakeStore) FindOrCreateCategory(ctx context.Context, userID, name string) (*model.Category, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if cat, err := s.GetCategoryByName(ctx, userID, name); err == nil {
		return cat, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := s.addCategory(name)
	return &cat, nil
}
