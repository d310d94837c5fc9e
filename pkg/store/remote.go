package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	remoteTimeout    = 10 * time.Second
	remoteAttempts   = 3
	remoteRetryDelay = time.Second
)

// ErrRemote is returned for HTTP failures against a remote store
// (timeouts, connection errors, 5xx responses).
var ErrRemote = errors.New("remote store error")

// retryableError marks a failure as transient so doRetry attempts it again.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// RemoteConfig holds connection settings for a remote store backend.
type RemoteConfig struct {
	// BaseURL is the address of a running model server, e.g.
	// "http://localhost:8080". The trailing slash is optional.
	BaseURL string `toml:"base_url"`
}

// RemoteStore talks to another process serving the models HTTP API.
// Transient failures are retried with exponential backoff; 4xx responses
// other than 404 fail immediately.
type RemoteStore struct {
	base   string
	client *http.Client
}

// NewRemoteStore creates a store backed by the HTTP API at cfg.BaseURL.
func NewRemoteStore(cfg RemoteConfig) (*RemoteStore, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote store: base URL is required")
	}
	return &RemoteStore{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{Timeout: remoteTimeout},
	}, nil
}

// Put uploads doc as the latest snapshot under name.
func (s *RemoteStore) Put(ctx context.Context, name string, doc []byte) (Snapshot, error) {
	var snap Snapshot
	err := s.doRetry(ctx, func() error {
		body, err := s.do(ctx, http.MethodPut, s.modelURL(name), doc)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(&snap)
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("model %q: %w", name, err)
	}
	return snap, nil
}

// Get downloads the latest snapshot under name. The server returns the raw
// model document, so only Name and Model are populated.
func (s *RemoteStore) Get(ctx context.Context, name string) (Snapshot, error) {
	var doc []byte
	err := s.doRetry(ctx, func() error {
		body, err := s.do(ctx, http.MethodGet, s.modelURL(name), nil)
		if err != nil {
			return err
		}
		defer body.Close()
		doc, err = io.ReadAll(body)
		return err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("model %q: %w", name, err)
	}
	return Snapshot{Name: name, Model: doc}, nil
}

// List fetches metadata for all stored snapshots.
func (s *RemoteStore) List(ctx context.Context) ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.doRetry(ctx, func() error {
		body, err := s.do(ctx, http.MethodGet, s.base+"/models", nil)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(&snaps)
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

// Delete removes the snapshot under name.
func (s *RemoteStore) Delete(ctx context.Context, name string) error {
	err := s.doRetry(ctx, func() error {
		body, err := s.do(ctx, http.MethodDelete, s.modelURL(name), nil)
		if err != nil {
			return err
		}
		return body.Close()
	})
	if err != nil {
		return fmt.Errorf("model %q: %w", name, err)
	}
	return nil
}

// Close releases client resources.
func (s *RemoteStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *RemoteStore) modelURL(name string) string {
	return s.base + "/models/" + name
}

func (s *RemoteStore) do(ctx context.Context, method, url string, payload []byte) (io.ReadCloser, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("%w: %v", ErrRemote, err)}
	}
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &retryableError{err: fmt.Errorf("%w: status %d", ErrRemote, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrRemote, code)
	}
}

// doRetry executes fn up to remoteAttempts times with exponential backoff.
// Only errors marked retryable trigger another attempt; everything else is
// returned immediately. Returns ctx.Err() if cancelled while waiting.
func (s *RemoteStore) doRetry(ctx context.Context, fn func() error) error {
	delay := remoteRetryDelay
	var lastErr error

	for i := range remoteAttempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*retryableError)) {
			return err
		}

		if i < remoteAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
