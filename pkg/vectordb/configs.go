package vectordb

// DefaultSearchLimit caps the hits returned by engines that require a limit.
const DefaultSearchLimit = 1000

// Config holds settings shared by the adapters.
type Config struct {
	// SearchLimit bounds range queries on Qdrant and Redis.
	SearchLimit int `mapstructure:"search_limit"`
}

func (c Config) searchLimit() int {
	if c.SearchLimit <= 0 {
		return DefaultSearchLimit
	}
	return c.SearchLimit
}
