package locsearch

import (
	"time"
)

// Default limiter settings.
const (
	DefaultMaxConcurrent     = 3
	DefaultRequestsPerMinute = 10
	DefaultInterRequestDelay = time.Second
	DefaultPerItemTimeout    = 30 * time.Second
)

// LimiterConfig bounds how outbound calls are scheduled.
type LimiterConfig struct {
	// MaxConcurrent is the batch size and the in-flight ceiling.
	MaxConcurrent int
	// RequestsPerMinute is a soft ceiling on unit starts.
	RequestsPerMinute int
	// InterRequestDelay is waited before each unit starts.
	InterRequestDelay time.Duration
	// PerItemTimeout bounds each unit. Zero means no timeout.
	PerItemTimeout time.Duration
}

// DefaultLimiterConfig returns the default limiter settings.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		MaxConcurrent:     DefaultMaxConcurrent,
		RequestsPerMinute: DefaultRequestsPerMinute,
		InterRequestDelay: DefaultInterRequestDelay,
		PerItemTimeout:    DefaultPerItemTimeout,
	}
}

// Validate returns an error if the configuration is unusable.
func (c LimiterConfig) Validate() error {
	if c.MaxConcurrent < 1 {
		return Errorf(EINVALID, "max concurrent must be at least 1")
	}
	if c.RequestsPerMinute < 1 {
		return Errorf(EINVALID, "requests per minute must be at least 1")
	}
	if c.InterRequestDelay < 0 {
		return Errorf(EINVALID, "inter-request delay must not be negative")
	}
	if c.PerItemTimeout < 0 {
		return Errorf(EINVALID, "per-item timeout must not be negative")
	}
	return nil
}

// SessionState is a step of the search state machine.
type SessionState string

const (
	StateIdle          SessionState = "idle"
	StatePreprocessing SessionState = "preprocessing"
	StateRetrieving    SessionState = "retrieving"
	StateExtracting    SessionState = "extracting"
	StateDeduplicating SessionState = "deduplicating"
	StateSummarizing   SessionState = "summarizing"
	StateReady         SessionState = "ready"
	StateFailed        SessionState = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s SessionState) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// ProgressPhase is the retrieval phase of a single source.
type ProgressPhase string

const (
	PhasePending   ProgressPhase = "pending"
	PhaseInFlight  ProgressPhase = "in-flight"
	PhaseCompleted ProgressPhase = "completed"
	PhaseFailed    ProgressPhase = "failed"
)

// ProgressEvent reports a source phase change or, when Source is empty,
// a session state transition.
type ProgressEvent struct {
	Source  string
	Phase   ProgressPhase
	State   SessionState
	Results int
	Err     error
}

// Placeholder digests.
const (
	DigestUnavailable = "Summary unavailable."
	DigestNoResults   = "No results found."
)

// Session is the unit of work for one query. It is owned by the job
// that runs it and handed to the caller once finished.
type Session struct {
	ID             string
	Query          string
	Language       string
	OptimizedQuery string
	State          SessionState
	StartedAt      time.Time
	FinishedAt     time.Time

	Sources  []SourceDescriptor
	Progress map[string]ProgressPhase

	Raw       []*RawResult
	Extracted []*ExtractedResult
	Results   []*ExtractedResult
	Facets    FacetIndex
	Digest    string
	Stats     Stats

	// Err is set when State is StateFailed.
	Err error
}

// Filter applies f and key to the session's results.
func (s *Session) Filter(f Filters, key SortKey) []*ExtractedResult {
	return ApplyFilters(s.Results, f, key)
}
