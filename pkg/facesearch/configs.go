package facesearch

// Config holds the batch processing settings.
type Config struct {
	// Concurrency is the number of images processed at once. Values below 2
	// process the batch sequentially.
	Concurrency int `mapstructure:"concurrency"`
}
