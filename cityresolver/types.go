package cityresolver

import "encoding/json"

// ErrorPolicy decides what bulk resolution does when a row fails.
type ErrorPolicy string

const (
	// OnErrorSkip logs the failure, leaves the city empty and continues.
	OnErrorSkip ErrorPolicy = "skip"
	// OnErrorAbort stops at the first failure.
	OnErrorAbort ErrorPolicy = "abort"
)

// AnnotatorBackend selects the linguistic pipeline implementation.
type AnnotatorBackend string

const (
	BackendRules AnnotatorBackend = "rules"
	BackendONNX  AnnotatorBackend = "onnx"
)

// CacheBackend selects where annotation results are memoised.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheDisk   CacheBackend = "disk"
	CacheRedis  CacheBackend = "redis"
)

// ResultRow holds the resolution of a single input text.
type ResultRow struct {
	Text       string     `json:"text"`
	Resolution Resolution `json:"resolution"`
	Err        error      `json:"-"`
}

// FuzzyConfig tunes approximate matching.
type FuzzyConfig struct {
	Cutoff float64 `json:"cutoff"`
}

// AnnotatorConfig wraps the settings of the annotation backend.
type AnnotatorConfig struct {
	Backend       AnnotatorBackend `json:"backend"`
	OrtDLL        string           `json:"ortDll"`
	ModelPath     string           `json:"modelPath"`
	TokenizerPath string           `json:"tokenizerPath"`
	MaxSeqLen     int              `json:"maxSeqLen"`
	Labels        []string         `json:"labels,omitempty"`
	TokenTypeIDs  bool             `json:"tokenTypeIds"`
	ModelID       string           `json:"modelId"`
}

// CacheConfig controls the annotation cache.
type CacheConfig struct {
	Backend    CacheBackend `json:"backend"`
	Dir        string       `json:"dir"`
	RedisURL   string       `json:"redisUrl"`
	Prefix     string       `json:"prefix"`
	TTLSeconds int          `json:"ttlSeconds"`
}

// ColumnConfig names the table columns to read messages from and write cities to.
type ColumnConfig struct {
	Message string `json:"message"`
	City    string `json:"city"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	CatalogPath string          `json:"catalogPath"`
	Fuzzy       FuzzyConfig     `json:"fuzzy"`
	Annotator   AnnotatorConfig `json:"annotator"`
	Cache       CacheConfig     `json:"cache"`
	Columns     ColumnConfig    `json:"columns"`
	Workers     int             `json:"workers"`
	OnError     ErrorPolicy     `json:"onError"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Fuzzy.Cutoff <= 0 {
		c.Fuzzy.Cutoff = DefaultFuzzyCutoff
	}
	if c.Annotator.Backend == "" {
		c.Annotator.Backend = BackendRules
	}
	if c.Annotator.MaxSeqLen == 0 {
		c.Annotator.MaxSeqLen = 512
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}
	if c.Cache.Backend == CacheDisk && c.Cache.Dir == "" {
		c.Cache.Dir = "./cache/annotations"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "cityresolver:doc:"
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.OnError == "" {
		c.OnError = OnErrorSkip
	}
}
