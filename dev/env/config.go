package devenv

// MongoTestConfig points the shortener's mongo tests at an existing
// deployment instead of a throwaway container.
type MongoTestConfig struct {
	Uri      string `json:"uri"`
	Database string `json:"database"`
}
