package recommendation

import (
	"context"
	"errors"
	"myBookShelf/domain"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

func assertIDs(t *testing.T, got, want []uint64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// storedModel builds a model for users 1..4 where user 1 is closest to 2,
// then 3, then 4.
func storedModel(t *testing.T) *SimilarityModel {
	t.Helper()
	sim := mat.NewSymDense(4, []float64{
		1, 0.9, 0.8, 0.1,
		0.9, 1, 0.3, 0.2,
		0.8, 0.3, 1, 0.4,
		0.1, 0.2, 0.4, 1,
	})
	m, err := NewSimilarityModel([]uint64{1, 2, 3, 4}, sim)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return m
}

func newTestEngine(world *fakeWorld, store *memStore, cache Cache, cfg Config) *Engine {
	return NewEngine(&fakeSignals{}, world, world, store, cache, cfg)
}

func TestColdStartFromInterests(t *testing.T) {
	world := newFakeWorld()
	world.interest(1, 5, 9)
	world.addBook(100, 5, 4.5, true) // X
	world.addBook(101, 5, 3.0, true) // Y
	world.addBook(102, 6, 5.0, true)

	e := newTestEngine(world, &memStore{}, nil, DefaultConfig())

	got, err := e.Recommend(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{100, 101})
}

func TestColdStartSkipsFavoritesAndUsesTopThreeInterests(t *testing.T) {
	world := newFakeWorld()
	world.interest(1, 1, 9)
	world.interest(1, 2, 8)
	world.interest(1, 3, 7)
	world.interest(1, 4, 6)
	world.addBook(10, 1, 4.0, true)
	world.addBook(11, 1, 5.0, true)
	world.addBook(20, 2, 3.0, true)
	world.addBook(30, 3, 2.0, false)
	world.addBook(40, 4, 5.0, true)
	world.favorite(1, 11)

	e := newTestEngine(world, &memStore{}, nil, DefaultConfig())

	got, err := e.ColdStart(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("cold start: %v", err)
	}
	// 11 is a favorite, 30 unavailable, 40 is in the fourth interest
	assertIDs(t, got, []uint64{10, 20})
}

func TestColdStartFallsBackToPopularity(t *testing.T) {
	world := newFakeWorld()
	world.interest(1, 9, 10) // no books in category 9
	world.addBook(10, 1, 3.0, true)
	world.addBook(11, 1, 5.0, true)
	world.addBook(12, 2, 4.0, false)
	world.favorite(2, 10, 12)
	world.favorite(3, 10, 12)

	e := newTestEngine(world, &memStore{}, nil, DefaultConfig())

	got, err := e.Recommend(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{10, 11})
}

func TestRecommendWithoutAnyModel(t *testing.T) {
	world := newFakeWorld()
	world.addBook(10, 1, 2.0, true)
	world.addBook(11, 1, 4.0, true)
	world.favorite(7, 10)
	store := &memStore{}

	e := newTestEngine(world, store, nil, DefaultConfig())

	got, err := e.Recommend(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{10, 11})
	if store.loads != 1 {
		t.Fatalf("expected one load attempt, got %d", store.loads)
	}

	// the absent model is retried on the next request
	store.model = storedModel(t)
	if _, err := e.Recommend(context.Background(), 1, 3); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if store.loads != 2 {
		t.Fatalf("expected a second load attempt, got %d", store.loads)
	}

	// once loaded the model is kept
	if _, err := e.Recommend(context.Background(), 2, 3); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if store.loads != 2 {
		t.Fatalf("loaded model should be reused, got %d loads", store.loads)
	}
}

func TestRecommendFromNeighbors(t *testing.T) {
	world := newFakeWorld()
	for _, id := range []uint64{10, 11, 12, 14} {
		world.addBook(id, 1, 3.0, true)
	}
	world.addBook(13, 1, 3.0, false)
	world.favorite(1, 12)
	world.favorite(2, 10, 11, 12)
	world.favorite(3, 11, 13, 12)
	world.favorite(4, 14)

	tests := []struct {
		name      string
		neighbors int
		want      []uint64
	}{
		// neighbours 2,3: 11 twice, 10 once, 12 owned, 13 unavailable
		{"two neighbors", 2, []uint64{11, 10}},
		{"all neighbors", 10, []uint64{11, 10, 14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.NeighborCount = tt.neighbors
			e := newTestEngine(world, &memStore{model: storedModel(t)}, nil, cfg)

			got, err := e.Recommend(context.Background(), 1, 10)
			if err != nil {
				t.Fatalf("recommend: %v", err)
			}
			assertIDs(t, got, tt.want)
		})
	}
}

func TestRecommendTruncatesToTopN(t *testing.T) {
	world := newFakeWorld()
	for _, id := range []uint64{10, 11, 12} {
		world.addBook(id, 1, 3.0, true)
	}
	world.favorite(2, 10, 11, 12)

	e := newTestEngine(world, &memStore{model: storedModel(t)}, nil, DefaultConfig())

	got, err := e.Recommend(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{10, 11})
}

func TestInterestBoostBreaksTies(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  []uint64
	}{
		{"no interest keeps count order", 0, []uint64{20, 21, 22}},
		{"weak interest keeps count order", 3, []uint64{20, 21, 22}},
		{"strong interest promotes tied item", 8, []uint64{20, 22, 21}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := newFakeWorld()
			world.addBook(20, 1, 3.0, true)
			world.addBook(21, 1, 3.0, true)
			world.addBook(22, 2, 3.0, true)
			// 20 is favorited by two neighbours; 21 and 22 tie on one
			world.favorite(2, 20, 21)
			world.favorite(3, 20, 22)
			if tt.level > 0 {
				world.interest(1, 2, tt.level)
			}

			e := newTestEngine(world, &memStore{model: storedModel(t)}, nil, DefaultConfig())
			got, err := e.Recommend(context.Background(), 1, 10)
			if err != nil {
				t.Fatalf("recommend: %v", err)
			}
			assertIDs(t, got, tt.want)
		})
	}
}

func TestRankCandidatesHigherLevelFirst(t *testing.T) {
	counts := map[uint64]int{1: 1, 2: 1, 3: 1, 4: 2}
	categoryOf := map[uint64]uint64{1: 10, 2: 20, 3: 30, 4: 10}
	world := newFakeWorld()
	world.interest(9, 20, 6)
	world.interest(9, 30, 9)

	got := rankCandidates([]uint64{1, 2, 3, 4}, counts, categoryOf, world.interests[9], 5)
	assertIDs(t, got, []uint64{4, 3, 2, 1})
}

func TestUnknownUserFallsBackToColdStart(t *testing.T) {
	world := newFakeWorld()
	world.addBook(10, 1, 4.0, true)
	world.favorite(2, 10)

	e := newTestEngine(world, &memStore{model: storedModel(t)}, nil, DefaultConfig())

	got, err := e.Recommend(context.Background(), 99, 5)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{10})
}

func TestRecommendCacheRoundTrip(t *testing.T) {
	world := newFakeWorld()
	world.addBook(10, 1, 3.0, true)
	world.addBook(11, 1, 3.0, true)
	world.favorite(2, 10, 11)
	store := &memStore{model: storedModel(t)}
	cache := newMapCache()

	e := newTestEngine(world, store, cache, DefaultConfig())
	ctx := context.Background()

	first, err := e.Recommend(ctx, 1, 5)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if cache.ttl != time.Hour {
		t.Fatalf("cache ttl = %v, want 1h", cache.ttl)
	}
	if _, ok := cache.entries["recommendations:1:5"]; !ok {
		t.Fatalf("expected cache entry, have %v", cache.entries)
	}

	// make the model unavailable: a second call must be served from cache
	e.mu.Lock()
	e.model = nil
	e.mu.Unlock()
	store.failing = true
	calls := world.catalogCalls

	second, err := e.Recommend(ctx, 1, 5)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	assertIDs(t, second, first)
	if world.catalogCalls != calls {
		t.Fatalf("cached call touched the catalog")
	}
}

func TestCacheFaultsAreIgnored(t *testing.T) {
	world := newFakeWorld()
	world.addBook(10, 1, 3.0, true)
	cache := newMapCache()
	cache.failing = true

	e := newTestEngine(world, &memStore{}, cache, DefaultConfig())

	got, err := e.Recommend(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{10})
}

func TestRecommendDefaultTopNKey(t *testing.T) {
	world := newFakeWorld()
	cache := newMapCache()
	e := newTestEngine(world, &memStore{}, cache, DefaultConfig())

	if _, err := e.Recommend(context.Background(), 4, 0); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if _, ok := cache.entries["recommendations:4:10"]; !ok {
		t.Fatalf("expected default top_n 10 in key, have %v", cache.entries)
	}
}

func TestRecommendSurfacesStorageFailure(t *testing.T) {
	e := newTestEngine(newFakeWorld(), &memStore{failing: true}, nil, DefaultConfig())
	if _, err := e.Recommend(context.Background(), 1, 5); err == nil {
		t.Fatalf("expected load failure to surface")
	}
}

func TestSimilarItems(t *testing.T) {
	world := newFakeWorld()
	world.addBook(30, 3, 4.0, true)
	world.addBook(31, 3, 5.0, false) // I: unavailable
	world.addBook(32, 3, 3.0, true)
	world.addBook(33, 3, 3.0, true)
	world.addBook(40, 4, 5.0, true)
	world.favorite(1, 33)

	e := newTestEngine(world, &memStore{}, nil, DefaultConfig())
	ctx := context.Background()

	tests := []struct {
		name string
		book uint64
		want []uint64
	}{
		{"excludes self and unavailable", 30, []uint64{33, 32}},
		{"unavailable source still has similars", 31, []uint64{30, 33, 32}},
		{"other category", 40, []uint64{}},
		{"unknown book", 999, []uint64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.SimilarItems(ctx, tt.book, 10)
			if err != nil {
				t.Fatalf("similar: %v", err)
			}
			if got == nil {
				t.Fatalf("expected empty slice, got nil")
			}
			assertIDs(t, got, tt.want)
			for _, id := range got {
				if id == 31 || id == tt.book {
					t.Fatalf("result contains %d", id)
				}
			}
		})
	}
}

func TestTrainNotTrainable(t *testing.T) {
	store := &memStore{}
	e := NewEngine(&fakeSignals{}, newFakeWorld(), newFakeWorld(), store, nil, DefaultConfig())

	if _, err := e.Train(context.Background()); !errors.Is(err, ErrNotTrainable) {
		t.Fatalf("expected ErrNotTrainable, got %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("nothing should be saved")
	}
}

func TestTrainSignalFailure(t *testing.T) {
	e := NewEngine(&fakeSignals{err: errors.New("db down")}, newFakeWorld(), newFakeWorld(), &memStore{}, nil, DefaultConfig())
	if _, err := e.Train(context.Background()); err == nil || errors.Is(err, ErrNotTrainable) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestTrainMakesModelLive(t *testing.T) {
	world := newFakeWorld()
	world.addBook(10, 1, 3.0, true)
	world.favorite(2, 10)
	signals := &fakeSignals{interests: []domain.CategorySignal{sig(1, 1, 5), sig(2, 1, 5)}}
	store := &memStore{}

	e := NewEngine(signals, world, world, store, nil, DefaultConfig())
	ctx := context.Background()

	model, err := e.Train(ctx)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if model.Size() != 2 || store.model != model {
		t.Fatalf("trained model not persisted")
	}

	// serving must not need the store after training
	store.failing = true
	got, err := e.Recommend(ctx, 1, 5)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{10})
}

func TestTrainedInterestOnlyUserGetsInterestBooks(t *testing.T) {
	world := newFakeWorld()
	world.interest(1, 5, 9)
	world.interest(2, 5, 7)
	world.addBook(100, 5, 4.5, true) // X
	world.addBook(101, 5, 3.0, true) // Y
	world.addBook(102, 6, 5.0, true)
	signals := &fakeSignals{interests: []domain.CategorySignal{sig(1, 5, 9), sig(2, 5, 7)}}
	cache := newMapCache()

	e := NewEngine(signals, world, world, &memStore{}, cache, DefaultConfig())
	ctx := context.Background()

	if _, err := e.Train(ctx); err != nil {
		t.Fatalf("train: %v", err)
	}
	if _, known := mustModel(t, e).IndexOf(1); !known {
		t.Fatalf("user 1 should be in the trained model")
	}

	got, err := e.Recommend(ctx, 1, 2)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	assertIDs(t, got, []uint64{100, 101})
	if cached, ok := cache.entries["recommendations:1:2"]; !ok || len(cached) != 2 {
		t.Fatalf("expected fallback result cached, have %v", cache.entries)
	}
}

func mustModel(t *testing.T, e *Engine) *SimilarityModel {
	t.Helper()
	m, ok, err := e.currentModel(context.Background())
	if err != nil || !ok {
		t.Fatalf("no live model: %v %v", ok, err)
	}
	return m
}

func TestReloadModel(t *testing.T) {
	world := newFakeWorld()
	store := &memStore{}
	e := newTestEngine(world, store, nil, DefaultConfig())
	ctx := context.Background()

	loaded, err := e.ReloadModel(ctx)
	if err != nil || loaded {
		t.Fatalf("expected nothing to reload, got %v %v", loaded, err)
	}

	store.model = storedModel(t)
	loaded, err = e.ReloadModel(ctx)
	if err != nil || !loaded {
		t.Fatalf("expected reload, got %v %v", loaded, err)
	}

	m, ok, err := e.currentModel(ctx)
	if err != nil || !ok || m.Size() != 4 {
		t.Fatalf("reloaded model not live: %v %v", ok, err)
	}

	store.failing = true
	if _, err := e.ReloadModel(ctx); err == nil {
		t.Fatalf("expected reload failure to surface")
	}
}
