package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// ErrUnauthorized is returned when the server rejects the bearer token. The
// agent treats it as a prompt to log in again.
var ErrUnauthorized = errors.New("unauthorized")

// collectionKeys are the document members the server understands. Everything
// else in the cache is client-side only and never pushed.
var collectionKeys = []string{
	"formC", "bankLedger", "riceLedger", "expenseLedger",
	"cooks", "staff", "settings",
}

// Options configures a Bridge.
type Options struct {
	ServerURL    string        // base URL, e.g. http://localhost:3000
	CachePath    string        // cache document file, e.g. mdmData.json
	TokenPath    string        // token file; used only when Remember is set
	Remember     bool          // persist the token across restarts
	PushInterval time.Duration // periodic re-push cadence, default 30s
	Logger       *log.Logger
}

// Bridge keeps the local cache and the server in sync. The syncing flag
// suppresses the push that a pull-triggered cache write would otherwise
// cause.
type Bridge struct {
	store   *Store
	client  *http.Client
	opts    Options
	token   atomic.Value // string
	syncing atomic.Bool
	logger  *log.Logger
}

// New builds a Bridge over an existing store. A persisted token is loaded
// when the remember flag is set.
func New(store *Store, opts Options) *Bridge {
	if opts.PushInterval <= 0 {
		opts.PushInterval = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	b := &Bridge{
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
		opts:   opts,
		logger: opts.Logger,
	}
	b.token.Store("")

	if opts.Remember && opts.TokenPath != "" {
		if data, err := os.ReadFile(opts.TokenPath); err == nil {
			b.token.Store(strings.TrimSpace(string(data)))
		}
	}

	store.OnSet(func() {
		if b.syncing.Load() {
			return
		}
		go func() {
			if err := b.Push(context.Background()); err != nil {
				b.logger.Printf("push after write failed: %v", err)
			}
		}()
	})

	return b
}

// LoggedIn reports whether the bridge holds a token.
func (b *Bridge) LoggedIn() bool {
	token, _ := b.token.Load().(string)
	return token != ""
}

// Login authenticates against the server and stores the bearer token,
// persisting it when the remember flag is set.
func (b *Bridge) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.opts.ServerURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return err
	}
	if parsed.Data.Token == "" {
		return errors.New("login: no token in response")
	}

	b.token.Store(parsed.Data.Token)
	if b.opts.Remember && b.opts.TokenPath != "" {
		if err := os.WriteFile(b.opts.TokenPath, []byte(parsed.Data.Token), 0o600); err != nil {
			b.logger.Printf("token persist failed: %v", err)
		}
	}
	return nil
}

// Logout drops the token and removes the persisted copy.
func (b *Bridge) Logout() {
	b.token.Store("")
	if b.opts.TokenPath != "" {
		_ = os.Remove(b.opts.TokenPath)
	}
}

// Pull fetches the full snapshot from the server and replaces the cache
// document. Client-side-only keys in the cache are preserved.
func (b *Bridge) Pull(ctx context.Context) error {
	data, err := b.get(ctx, "/api/backup")
	if err != nil {
		return err
	}

	var parsed struct {
		Data Document `json:"data"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	b.syncing.Store(true)
	defer b.syncing.Store(false)

	doc := b.store.Snapshot()
	for _, key := range collectionKeys {
		if value, ok := parsed.Data[key]; ok {
			doc[key] = value
		}
	}
	return b.store.Replace(doc)
}

// Push posts the server-known portion of the cache document to the import
// endpoint. Failures are the caller's to log; there is no retry.
func (b *Bridge) Push(ctx context.Context) error {
	doc := b.store.Snapshot()
	payload := make(map[string]json.RawMessage, len(collectionKeys))
	for _, key := range collectionKeys {
		if value, ok := doc[key]; ok {
			payload[key] = value
		}
	}
	if len(payload) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.opts.ServerURL+"/api/import", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	b.authorize(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("push: unexpected status %d", resp.StatusCode)
	}
}

// Run pushes on the configured interval until the context is canceled.
// Failed pushes are logged and dropped.
func (b *Bridge) Run(ctx context.Context) {
	ticker := time.NewTicker(b.opts.PushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !b.LoggedIn() {
				continue
			}
			if err := b.Push(ctx); err != nil {
				b.logger.Printf("periodic push failed: %v", err)
			}
		}
	}
}

// get performs an authorized GET and returns the response body.
func (b *Bridge) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.opts.ServerURL+path, nil)
	if err != nil {
		return nil, err
	}
	b.authorize(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
}

// authorize attaches the bearer token, when present.
func (b *Bridge) authorize(req *http.Request) {
	if token, _ := b.token.Load().(string); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
