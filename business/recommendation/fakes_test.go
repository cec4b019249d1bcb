package recommendation

import (
	"context"
	"errors"
	"myBookShelf/domain"
	"slices"
	"sort"
	"sync"
	"time"
)

type fakeSignals struct {
	interests []domain.CategorySignal
	favorites []domain.CategorySignal
	ratings   []domain.CategorySignal
	err       error
}

func (f *fakeSignals) InterestSignals(context.Context) ([]domain.CategorySignal, error) {
	return f.interests, f.err
}

func (f *fakeSignals) FavoriteCategoryCounts(context.Context) ([]domain.CategorySignal, error) {
	return f.favorites, nil
}

func (f *fakeSignals) PeerRatingSignals(context.Context) ([]domain.CategorySignal, error) {
	return f.ratings, nil
}

// fakeWorld is an in-memory catalog plus per-user signals.
type fakeWorld struct {
	books     map[uint64]domain.Book
	favorites map[uint64][]uint64
	interests map[uint64][]domain.UserInterest

	catalogCalls int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		books:     make(map[uint64]domain.Book),
		favorites: make(map[uint64][]uint64),
		interests: make(map[uint64][]domain.UserInterest),
	}
}

func (w *fakeWorld) addBook(id, categoryID uint64, rating float64, available bool) {
	r := rating
	w.books[id] = domain.Book{
		ID:         id,
		CategoryID: categoryID,
		Category:   domain.Category{ID: categoryID, Name: "cat"},
		Title:      "book",
		Rating:     &r,
		Available:  available,
	}
}

func (w *fakeWorld) favorite(userID uint64, bookIDs ...uint64) {
	w.favorites[userID] = append(w.favorites[userID], bookIDs...)
}

func (w *fakeWorld) interest(userID, categoryID uint64, level int) {
	w.interests[userID] = append(w.interests[userID], domain.UserInterest{UserID: userID, CategoryID: categoryID, Level: level})
	sort.SliceStable(w.interests[userID], func(i, j int) bool {
		a, b := w.interests[userID][i], w.interests[userID][j]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.CategoryID < b.CategoryID
	})
}

func (w *fakeWorld) FavoriteBookIDs(_ context.Context, userID uint64) ([]uint64, error) {
	return w.favorites[userID], nil
}

func (w *fakeWorld) FavoriteBookIDsByUsers(_ context.Context, userIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64)
	for _, u := range userIDs {
		if f, ok := w.favorites[u]; ok {
			out[u] = f
		}
	}
	return out, nil
}

func (w *fakeWorld) UserInterests(_ context.Context, userID uint64) ([]domain.UserInterest, error) {
	return w.interests[userID], nil
}

func (w *fakeWorld) FindByID(_ context.Context, id uint64) (domain.Book, bool, error) {
	w.catalogCalls++
	b, ok := w.books[id]
	return b, ok, nil
}

func (w *fakeWorld) FindAvailableByIDs(_ context.Context, ids []uint64) ([]domain.Book, error) {
	w.catalogCalls++
	var out []domain.Book
	for _, id := range ids {
		if b, ok := w.books[id]; ok && b.Available {
			out = append(out, b)
		}
	}
	return out, nil
}

func (w *fakeWorld) favoriteCount(bookID uint64) int {
	n := 0
	for _, favs := range w.favorites {
		if slices.Contains(favs, bookID) {
			n++
		}
	}
	return n
}

func (w *fakeWorld) sortedAvailable(keep func(domain.Book) bool, less func(a, b domain.Book) bool, limit int) []uint64 {
	var books []domain.Book
	for _, b := range w.books {
		if b.Available && keep(b) {
			books = append(books, b)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		if less(books[i], books[j]) {
			return true
		}
		if less(books[j], books[i]) {
			return false
		}
		return books[i].ID < books[j].ID
	})
	out := []uint64{}
	for _, b := range books {
		if len(out) == limit {
			break
		}
		out = append(out, b.ID)
	}
	return out
}

func (w *fakeWorld) FindAvailableInCategories(_ context.Context, categoryIDs, excludeIDs []uint64, limit int) ([]uint64, error) {
	w.catalogCalls++
	return w.sortedAvailable(func(b domain.Book) bool {
		return slices.Contains(categoryIDs, b.CategoryID) && !slices.Contains(excludeIDs, b.ID)
	}, func(a, b domain.Book) bool {
		return *a.Rating > *b.Rating
	}, limit), nil
}

func (w *fakeWorld) FindPopular(_ context.Context, limit int) ([]uint64, error) {
	w.catalogCalls++
	return w.sortedAvailable(func(domain.Book) bool { return true }, func(a, b domain.Book) bool {
		ca, cb := w.favoriteCount(a.ID), w.favoriteCount(b.ID)
		if ca != cb {
			return ca > cb
		}
		return *a.Rating > *b.Rating
	}, limit), nil
}

func (w *fakeWorld) FindSimilar(_ context.Context, categoryID, excludeID uint64, limit int) ([]uint64, error) {
	w.catalogCalls++
	return w.sortedAvailable(func(b domain.Book) bool {
		return b.CategoryID == categoryID && b.ID != excludeID
	}, func(a, b domain.Book) bool {
		if *a.Rating != *b.Rating {
			return *a.Rating > *b.Rating
		}
		return w.favoriteCount(a.ID) > w.favoriteCount(b.ID)
	}, limit), nil
}

type memStore struct {
	mu      sync.Mutex
	model   *SimilarityModel
	loads   int
	saves   int
	failing bool
}

func (s *memStore) Save(_ context.Context, m *SimilarityModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store unavailable")
	}
	s.saves++
	s.model = m
	return nil
}

func (s *memStore) Load(context.Context) (*SimilarityModel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.failing {
		return nil, false, errors.New("store unavailable")
	}
	if s.model == nil {
		return nil, false, nil
	}
	return s.model, true, nil
}

func (s *memStore) Exists(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model != nil, nil
}

type mapCache struct {
	entries map[string][]uint64
	ttl     time.Duration
	failing bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]uint64)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]uint64, bool, error) {
	if c.failing {
		return nil, false, errors.New("cache down")
	}
	ids, ok := c.entries[key]
	return ids, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, ids []uint64, ttl time.Duration) error {
	if c.failing {
		return errors.New("cache down")
	}
	c.entries[key] = ids
	c.ttl = ttl
	return nil
}
