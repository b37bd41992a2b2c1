package modelsync

import "time"

// Config configures the modelsync client.
type Config struct {
	// AppName identifies the calling application. It scopes persisted
	// metadata (multiple logical applications sharing a process do not
	// collide) and determines the storage directory name.
	// Example: "acme" → ~/.local/share/acme/modelsync/ on Linux
	AppName string

	// ProjectID is the server-side project the models belong to.
	ProjectID string

	// APIKey authenticates the project. Sent as the "key" query parameter.
	APIKey string

	// BundleID is the application bundle/package identifier sent in the
	// x-ios-bundle-identifier header. May be empty.
	BundleID string

	// Host is the base URL of the model-download service.
	// If empty, DefaultHost is used.
	Host string

	// DataDir overrides the default data directory of the file-backed store.
	// If empty, uses platform-appropriate default.
	// Can also be set via environment variable: <APPNAME>_DATA_DIR
	DataDir string
}

// ModelInfo is the persisted metadata for one model, keyed by
// (application identity, model name).
//
// ModelHash is non-empty exactly when at least one successful fetch has
// occurred; DownloadURL and Size are only meaningful then. LocalPath is
// written solely by the external download stage via Client.SetLocalPath.
type ModelInfo struct {
	// Name is the model identifier, immutable key.
	Name string `json:"name"`

	// DownloadURL is the last server-provided location of the model artifact.
	DownloadURL string `json:"download_url,omitempty"`

	// Size is the artifact byte length as reported by the server.
	Size int64 `json:"size_bytes,omitempty"`

	// ModelHash is the server's cache-validation token for this artifact
	// version, taken from the Etag response header.
	ModelHash string `json:"model_hash,omitempty"`

	// LocalPath is where the download stage stored the artifact, if it has.
	LocalPath string `json:"local_path,omitempty"`

	// UpdatedAt is when the metadata was last written after a 200 response.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Downloaded reports whether the artifact for this metadata has been
// retrieved and placed by the download stage.
func (m ModelInfo) Downloaded() bool {
	return m.LocalPath != ""
}

// Model is the caller-facing descriptor of a downloaded model, produced by
// Client.LocalModel once the artifact is on disk.
type Model struct {
	// Name is the model identifier.
	Name string `json:"name"`

	// Size is the artifact size in bytes.
	Size int64 `json:"size_bytes"`

	// Hash is the cache-validation hash of the downloaded version.
	Hash string `json:"hash"`

	// Path is the absolute path to the downloaded artifact.
	Path string `json:"path"`
}

// SyncOutcome is the closed set of successful sync results.
type SyncOutcome int

const (
	// OutcomeNotModified means the cached metadata is still current and
	// nothing was written.
	OutcomeNotModified SyncOutcome = iota

	// OutcomeUpdated means new metadata was fetched and persisted.
	OutcomeUpdated
)

// String returns a human-readable form of the outcome.
func (o SyncOutcome) String() string {
	switch o {
	case OutcomeNotModified:
		return "not modified"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// SyncResult reports what a Sync call did.
type SyncResult struct {
	// Outcome indicates whether metadata changed.
	Outcome SyncOutcome

	// Info is the metadata after the call: freshly persisted on
	// OutcomeUpdated, the prior cached record (zero value if none)
	// on OutcomeNotModified.
	Info ModelInfo
}
