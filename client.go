package modelsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Request/response protocol constants for the model-download endpoint.
const (
	// downloadPath is the endpoint path template:
	// /v1beta2/projects/{projectID}/models/{modelName}:download
	downloadPathPrefix = "/v1beta2/projects/"

	// headerBundleID carries the calling application's bundle identifier.
	headerBundleID = "x-ios-bundle-identifier"

	// headerInstallationsAuth carries the bearer token from the TokenProvider.
	headerInstallationsAuth = "x-goog-firebase-installations-auth"

	// headerIfNoneMatch carries the cached model hash for conditional fetch.
	headerIfNoneMatch = "if-none-match"

	// headerEtag is the response header carrying the new model hash on 200.
	headerEtag = "Etag"
)

// modelDownloadResponse mirrors the server payload of a 200 response.
// It is never persisted directly; it is decoded, validated, and merged
// into ModelInfo.
type modelDownloadResponse struct {
	// DownloadURI is the location of the model artifact.
	DownloadURI string `json:"downloadUri"`

	// ExpireTime is when DownloadURI stops being valid. Part of the payload
	// contract, unused by current logic.
	ExpireTime string `json:"expireTime"`

	// SizeBytes is the artifact size as a string of digits.
	SizeBytes string `json:"sizeBytes"`
}

// Client synchronizes persisted model metadata with the remote
// model-download service. All methods are safe for concurrent use, but
// concurrent Sync calls for the same model are not deduplicated: each
// performs its own read-modify-write and the last writer wins.
type Client struct {
	// cfg holds the client configuration.
	cfg Config

	// host is the normalized base URL of the service.
	host string

	// httpClient is used for all HTTP requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// store persists ModelInfo records.
	store MetadataStore

	// tokens supplies the per-attempt auth token.
	tokens TokenProvider

	// closed is set by Close; in-flight completions observing it discard
	// their result.
	closed atomic.Bool
}

// NewClient creates a new Client with the given configuration and token
// provider. Returns an error if the configuration is invalid.
func NewClient(cfg Config, tokens TokenProvider, opts ...ClientOption) (*Client, error) {
	if cfg.AppName == "" {
		return nil, errors.New("modelsync: AppName is required")
	}
	if cfg.ProjectID == "" {
		return nil, errors.New("modelsync: ProjectID is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("modelsync: APIKey is required")
	}
	if tokens == nil {
		return nil, errors.New("modelsync: a TokenProvider is required")
	}

	ccfg := newClientConfig()
	for _, opt := range opts {
		opt(ccfg)
	}

	store := ccfg.store
	if store == nil {
		var err error
		store, err = NewFileStore(cfg)
		if err != nil {
			return nil, err
		}
	}

	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		host = DefaultHost
	}

	return &Client{
		cfg:        cfg,
		host:       host,
		httpClient: ccfg.httpClient,
		logger:     ccfg.logger,
		store:      store,
		tokens:     tokens,
	}, nil
}

// Close marks the client as torn down. An in-flight Sync whose HTTP call
// completes after Close returns ErrClosed and leaves persisted state
// untouched. Close does not cancel the underlying request.
func (c *Client) Close() error {
	c.closed.Store(true)
	return nil
}

// Sync asks the server whether a newer version of modelName exists and, if
// so, fetches and persists its metadata. A single best-effort attempt: no
// retries, no internal timeout beyond the transport's.
//
// Returns OutcomeNotModified when the cached hash is still current (HTTP 304)
// and OutcomeUpdated after new metadata was persisted (HTTP 200). A missing
// model yields ErrModelNotFound; every other failure is surfaced via the
// remaining sentinels. Persisted state is only mutated on a fully validated
// 200 response.
func (c *Client) Sync(ctx context.Context, modelName string) (SyncResult, error) {
	if modelName == "" {
		return SyncResult{}, ErrInvalidName
	}
	if c.closed.Load() {
		return SyncResult{}, ErrClosed
	}

	cached, _, err := c.store.Load(ctx, c.cfg.AppName, modelName)
	if err != nil {
		return SyncResult{}, err
	}

	token, err := c.tokens.AuthToken(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrAuthToken, err)
	}

	req, err := c.newDownloadRequest(ctx, modelName, token, cached.ModelHash)
	if err != nil {
		return SyncResult{}, fmt.Errorf("creating request: %w", err)
	}

	c.logf(func(l Logger) {
		l.Debug("syncing model metadata", "model", modelName, "conditional", cached.ModelHash != "")
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	if resp == nil {
		return SyncResult{}, ErrBadResponse
	}
	defer resp.Body.Close()

	// The client may have been closed while the request was in flight.
	if c.closed.Load() {
		return SyncResult{}, ErrClosed
	}

	return c.dispatch(ctx, modelName, cached, resp)
}

// newDownloadRequest builds the conditional GET for the metadata endpoint.
func (c *Client) newDownloadRequest(ctx context.Context, modelName, token, cachedHash string) (*http.Request, error) {
	endpoint := c.host + downloadPathPrefix + url.PathEscape(c.cfg.ProjectID) +
		"/models/" + url.PathEscape(modelName) + ":download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("key", c.cfg.APIKey)
	req.URL.RawQuery = q.Encode()

	req.Header.Set(headerBundleID, c.cfg.BundleID)
	req.Header.Set(headerInstallationsAuth, token)
	if cachedHash != "" {
		req.Header.Set(headerIfNoneMatch, cachedHash)
	}

	return req, nil
}

// dispatch owns the mapping from status code to sync outcome. Only the 200
// branch mutates persisted state.
func (c *Client) dispatch(ctx context.Context, modelName string, cached ModelInfo, resp *http.Response) (SyncResult, error) {
	switch resp.StatusCode {
	case http.StatusOK:
		return c.applyUpdate(ctx, modelName, cached, resp)

	case http.StatusNotModified:
		c.logf(func(l Logger) { l.Debug("model metadata unchanged", "model", modelName) })
		return SyncResult{Outcome: OutcomeNotModified, Info: cached}, nil

	case http.StatusNotFound:
		return SyncResult{}, ErrModelNotFound

	default:
		return SyncResult{}, fmt.Errorf("%w: %d", ErrServerStatus, resp.StatusCode)
	}
}

// applyUpdate validates a 200 response, decodes the payload, and persists the
// updated metadata.
func (c *Client) applyUpdate(ctx context.Context, modelName string, cached ModelInfo, resp *http.Response) (SyncResult, error) {
	hash := resp.Header.Get(headerEtag)
	if hash == "" {
		return SyncResult{}, ErrMissingModelHash
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	if len(body) == 0 {
		return SyncResult{}, ErrBadResponse
	}

	var wire modelDownloadResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		// An undecodable body on an otherwise valid 200 is deliberately
		// treated as "no update": prior metadata stays intact and the call
		// succeeds, so schema drift never hard-fails callers.
		c.logf(func(l Logger) {
			l.Warn("ignoring undecodable metadata payload", "model", modelName, "error", err)
		})
		return SyncResult{Outcome: OutcomeNotModified, Info: cached}, nil
	}

	size, err := strconv.ParseInt(wire.SizeBytes, 10, 64)
	if err != nil {
		// Unparsable size is non-fatal; the record carries 0.
		c.logf(func(l Logger) {
			l.Warn("unparsable model size in response", "model", modelName, "size", wire.SizeBytes)
		})
		size = 0
	}

	info := ModelInfo{
		Name:        modelName,
		DownloadURL: wire.DownloadURI,
		Size:        size,
		ModelHash:   hash,
		// LocalPath belongs to the download stage, carried through untouched.
		LocalPath: cached.LocalPath,
		UpdatedAt: time.Now(),
	}

	if err := c.store.Save(ctx, c.cfg.AppName, info); err != nil {
		return SyncResult{}, err
	}

	c.logf(func(l Logger) {
		l.Info("model metadata updated", "model", modelName, "hash", hash, "size", size)
	})

	return SyncResult{Outcome: OutcomeUpdated, Info: info}, nil
}

// Info returns the persisted metadata for modelName.
// Returns ErrNotSynced if no record exists.
func (c *Client) Info(ctx context.Context, modelName string) (ModelInfo, error) {
	info, ok, err := c.store.Load(ctx, c.cfg.AppName, modelName)
	if err != nil {
		return ModelInfo{}, err
	}
	if !ok {
		return ModelInfo{}, ErrNotSynced
	}
	return info, nil
}

// LocalModel builds a ready-to-use model descriptor from persisted metadata.
// It succeeds only once the external download stage has recorded an artifact
// location via SetLocalPath; otherwise it returns ErrNoLocalModel. Pure
// read-side projection, no network involved.
func (c *Client) LocalModel(ctx context.Context, modelName string) (Model, error) {
	info, ok, err := c.store.Load(ctx, c.cfg.AppName, modelName)
	if err != nil {
		return Model{}, err
	}
	if !ok || !info.Downloaded() {
		return Model{}, ErrNoLocalModel
	}

	return Model{
		Name: info.Name,
		Size: info.Size,
		Hash: info.ModelHash,
		Path: info.LocalPath,
	}, nil
}

// SetLocalPath records where the download stage placed the artifact for
// modelName. Returns ErrNotSynced if the model has never been synced, since
// a local path without metadata would violate the record's invariants.
func (c *Client) SetLocalPath(ctx context.Context, modelName, path string) error {
	info, ok, err := c.store.Load(ctx, c.cfg.AppName, modelName)
	if err != nil {
		return err
	}
	if !ok || info.ModelHash == "" {
		return ErrNotSynced
	}

	info.LocalPath = path
	return c.store.Save(ctx, c.cfg.AppName, info)
}

// ListModels returns all persisted metadata records for this application.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	return c.store.List(ctx, c.cfg.AppName)
}

// DeleteModel removes the persisted metadata record for modelName.
// The next Sync for the model performs an unconditional fetch.
func (c *Client) DeleteModel(ctx context.Context, modelName string) error {
	return c.store.Delete(ctx, c.cfg.AppName, modelName)
}

// logf invokes fn with the configured logger, if any.
func (c *Client) logf(fn func(Logger)) {
	if c.logger != nil {
		fn(c.logger)
	}
}
