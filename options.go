package modelsync

import (
	"net/http"
	"time"
)

// DefaultHost is the base URL of the model-download service used when
// Config.Host is empty.
const DefaultHost = "https://firebaseml.googleapis.com"

// DefaultLockTimeout is the default timeout for acquiring store file locks.
const DefaultLockTimeout = 30 * time.Second

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	// httpClient is used for all metadata requests.
	httpClient HTTPClient

	// logger receives diagnostic log messages.
	logger Logger

	// store overrides the default file-backed metadata store.
	store MetadataStore
}

// newClientConfig returns a clientConfig with default values.
func newClientConfig() *clientConfig {
	return &clientConfig{
		httpClient: http.DefaultClient,
	}
}

// WithHTTPClient sets a custom HTTP client for metadata requests.
// Useful for testing with mock servers or customizing timeouts.
// If not set, http.DefaultClient is used.
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithStore sets a custom metadata store, for example one created with
// NewSQLiteStore. If not set, a file-backed store rooted at the resolved
// data directory is used.
func WithStore(store MetadataStore) ClientOption {
	return func(c *clientConfig) {
		c.store = store
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap, logrus, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
