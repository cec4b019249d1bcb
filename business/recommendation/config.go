package recommendation

import "time"

type Config struct {
	// weights of the two feature sources in the blended matrix
	ContentWeight       float64
	CollaborativeWeight float64

	// favorites are counts; scale them next to interest levels (1-10)
	FavoriteWeight float64

	// how many similar users feed the candidate pool
	NeighborCount int

	// declared interests considered by cold start
	ColdStartInterests int

	// minimum interest level that promotes tied candidates
	InterestBoostMinLevel int

	CacheTTL time.Duration

	DefaultTopN        int
	DefaultSimilarTopN int
	MaxTopN            int
}

const (
	defaultContentWeight         = 0.7
	defaultCollaborativeWeight   = 0.3
	defaultFavoriteWeight        = 5.0
	defaultNeighborCount         = 10
	defaultColdStartInterests    = 3
	defaultInterestBoostMinLevel = 5
	defaultCacheTTL              = time.Hour
	defaultTopN                  = 10
	defaultSimilarTopN           = 6
	defaultMaxTopN               = 100
)

func DefaultConfig() Config {
	return Config{
		ContentWeight:         defaultContentWeight,
		CollaborativeWeight:   defaultCollaborativeWeight,
		FavoriteWeight:        defaultFavoriteWeight,
		NeighborCount:         defaultNeighborCount,
		ColdStartInterests:    defaultColdStartInterests,
		InterestBoostMinLevel: defaultInterestBoostMinLevel,
		CacheTTL:              defaultCacheTTL,
		DefaultTopN:           defaultTopN,
		DefaultSimilarTopN:    defaultSimilarTopN,
		MaxTopN:               defaultMaxTopN,
	}
}

// withDefaults fills zero fields so a partially populated Config stays usable.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ContentWeight == 0 && c.CollaborativeWeight == 0 {
		c.ContentWeight = d.ContentWeight
		c.CollaborativeWeight = d.CollaborativeWeight
	}
	if c.FavoriteWeight <= 0 {
		c.FavoriteWeight = d.FavoriteWeight
	}
	if c.NeighborCount <= 0 {
		c.NeighborCount = d.NeighborCount
	}
	if c.ColdStartInterests <= 0 {
		c.ColdStartInterests = d.ColdStartInterests
	}
	if c.InterestBoostMinLevel <= 0 {
		c.InterestBoostMinLevel = d.InterestBoostMinLevel
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.DefaultTopN <= 0 {
		c.DefaultTopN = d.DefaultTopN
	}
	if c.DefaultSimilarTopN <= 0 {
		c.DefaultSimilarTopN = d.DefaultSimilarTopN
	}
	if c.MaxTopN <= 0 {
		c.MaxTopN = d.MaxTopN
	}
	return c
}
