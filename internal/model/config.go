package model

import "time"

// Config is the full runtime configuration, assembled at construction time
// from defaults, the config file, environment, and flags. The pipeline never
// consults global state: behavior is fixed per instance.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Search      SearchConfig      `yaml:"search" json:"search"`
	Heuristics  HeuristicsConfig  `yaml:"heuristics" json:"heuristics"`
	Rank        RankConfig        `yaml:"rank" json:"rank"`
	Fusion      FusionConfig      `yaml:"fusion" json:"fusion"`
	NLP         NLPConfig         `yaml:"nlp" json:"nlp"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	Verbose     bool              `yaml:"verbose" json:"verbose"`
}

// HTTPConfig controls page fetching.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`               // per-URL fetch timeout
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" json:"respect_robots"`
	RatePerHost   float64       `yaml:"rate_per_host" json:"rate_per_host"`   // requests/sec per domain
	RateBurst     int           `yaml:"rate_burst" json:"rate_burst"`
	MinPageChars  int           `yaml:"min_page_chars" json:"min_page_chars"` // shorter pages treated as absent
	HTTPProxy     string        `yaml:"http_proxy" json:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy" json:"https_proxy,omitempty"`
}

// SearchConfig selects and tunes the search provider.
type SearchConfig struct {
	Provider   string        `yaml:"provider" json:"provider"`       // "google" or "serper"
	APIKey     string        `yaml:"api_key" json:"-"`
	EngineID   string        `yaml:"engine_id" json:"-"`             // Google CSE only
	MaxResults int           `yaml:"max_results" json:"max_results"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// HeuristicsConfig holds the keyword lexicon and verdict thresholds.
// Externalized so scoring behavior is reproducible without code changes.
type HeuristicsConfig struct {
	Supporting    map[string]float64 `yaml:"supporting" json:"supporting"`
	Refuting      map[string]float64 `yaml:"refuting" json:"refuting"`
	Negations     []string           `yaml:"negations" json:"negations"`
	SourceWeights map[string]float64 `yaml:"source_weights" json:"source_weights"`
	Threshold     float64            `yaml:"threshold" json:"threshold"` // |score| above this is decisive
}

// RankConfig tunes semantic evidence selection.
type RankConfig struct {
	TopK            int     `yaml:"top_k" json:"top_k"`
	SimilarityFloor float64 `yaml:"similarity_floor" json:"similarity_floor"`
	MinSentenceLen  int     `yaml:"min_sentence_len" json:"min_sentence_len"`
	MaxSentenceLen  int     `yaml:"max_sentence_len" json:"max_sentence_len"`
	MaxSentences    int     `yaml:"max_sentences" json:"max_sentences"` // per page, pre-ranking cap
}

// FusionConfig tunes how heuristic and entailment signals merge.
type FusionConfig struct {
	ConfidenceFloor     float64 `yaml:"confidence_floor" json:"confidence_floor"`         // labels below this count as Neutral
	EvidenceFloor       float64 `yaml:"evidence_floor" json:"evidence_floor"`             // min support+contradict weight to trust evidence
	Margin              float64 `yaml:"margin" json:"margin"`                             // |net| above this is decisive
	HeuristicCap        float64 `yaml:"heuristic_cap" json:"heuristic_cap"`               // confidence cap when deferring to heuristics
	DisagreementPenalty float64 `yaml:"disagreement_penalty" json:"disagreement_penalty"` // subtracted when signals disagree
}

// NLPConfig configures the model backends.
type NLPConfig struct {
	Provider       string        `yaml:"provider" json:"provider"` // "openai" or "" (disabled)
	APIKey         string        `yaml:"api_key" json:"-"`
	BaseURL        string        `yaml:"base_url" json:"base_url"` // OpenAI-compatible endpoint override
	EmbedModel     string        `yaml:"embed_model" json:"embed_model"`
	ClassifyModel  string        `yaml:"classify_model" json:"classify_model"`
	RewriteModel   string        `yaml:"rewrite_model" json:"rewrite_model"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
	PolishTimeout  time.Duration `yaml:"polish_timeout" json:"polish_timeout"`
	PolishMinChars int           `yaml:"polish_min_chars" json:"polish_min_chars"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	Backend     string        `yaml:"backend" json:"backend"` // "memory", "postgres", "redis"
	TTL         time.Duration `yaml:"ttl" json:"ttl"`         // memory/redis only; postgres entries persist
	PostgresURL string        `yaml:"postgres_url" json:"-"`
	RedisAddr   string        `yaml:"redis_addr" json:"redis_addr"`
}

// ConcurrencyConfig bounds per-request parallelism.
type ConcurrencyConfig struct {
	FetchWorkers   int           `yaml:"fetch_workers" json:"fetch_workers"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"` // overall pipeline deadline
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// DefaultConfig returns the standard configuration. Numeric defaults here
// are a starting point, not mandated constants; all are overridable.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       12 * time.Second,
			UserAgent:     "claimlens/0.1 (+https://github.com/mzelenkov/claimlens)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
			RatePerHost:   2.0,
			RateBurst:     4,
			MinPageChars:  400,
		},
		Search: SearchConfig{
			Provider:   "google",
			MaxResults: 10,
			Timeout:    12 * time.Second,
		},
		Heuristics: DefaultHeuristics(),
		Rank: RankConfig{
			TopK:            5,
			SimilarityFloor: 0.3,
			MinSentenceLen:  40,
			MaxSentenceLen:  300,
			MaxSentences:    800,
		},
		Fusion: FusionConfig{
			ConfidenceFloor:     0.5,
			EvidenceFloor:       0.8,
			Margin:              0.25,
			HeuristicCap:        0.5,
			DisagreementPenalty: 0.15,
		},
		NLP: NLPConfig{
			Provider:       "openai",
			EmbedModel:     "text-embedding-3-small",
			ClassifyModel:  "gpt-4o-mini",
			RewriteModel:   "gpt-4o-mini",
			Timeout:        30 * time.Second,
			PolishTimeout:  10 * time.Second,
			PolishMinChars: 120,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers:   5,
			RequestTimeout: 90 * time.Second,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
	}
}

// DefaultHeuristics returns the built-in keyword lexicon. Weights favor
// decisive fact-checking vocabulary over generic hedging words.
func DefaultHeuristics() HeuristicsConfig {
	return HeuristicsConfig{
		Supporting: map[string]float64{
			"confirmed": 3, "verified": 3, "accurate": 3, "true": 3,
			"correct": 2, "fact": 2, "supported": 1, "evidence": 1,
		},
		Refuting: map[string]float64{
			"hoax": 3, "false": 3, "debunked": 3, "myth": 3,
			"conspiracy": 2, "incorrect": 2, "misleading": 2, "scam": 2,
			"unproven": 1, "baseless": 1,
		},
		Negations: []string{"not", "isnt", "isn't", "never", "no"},
		SourceWeights: map[string]float64{
			"reuters.com":    1.5,
			"apnews.com":     1.5,
			"snopes.com":     1.5,
			"politifact.com": 1.5,
			"factcheck.org":  1.5,
		},
		Threshold: 0.33,
	}
}
