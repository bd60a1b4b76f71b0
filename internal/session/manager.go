package session

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/reportview/internal/loader"
	"github.com/dgallion1/reportview/internal/mission"
	"github.com/dgallion1/reportview/internal/page"
)

// Source is a report file held in memory. Every session parses its own
// copy because sectioning relocates nodes in place.
type Source struct {
	Filename string
	Data     []byte
	Hash     string // hex SHA-256 of Data
	Loader   loader.Loader
}

// ReadSource reads a report file and picks its loader.
func ReadSource(path string, opts loader.Options) (Source, error) {
	l, err := loader.ForFile(path, opts)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read report: %w", err)
	}
	return Source{Filename: filepath.Base(path), Data: data, Hash: ContentHashHex(data), Loader: l}, nil
}

// ContentHashHex returns the hex-encoded SHA-256 of data.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Config tunes the manager.
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxSessions     int
}

// Manager creates live pages from one report source and evicts idle ones.
type Manager struct {
	store   *Store
	source  Source
	mission mission.Data
	log     *slog.Logger
	cfg     Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(src Source, data mission.Data, cfg Config, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	return &Manager{
		store:   NewStore(cfg.TTL, cfg.MaxSessions),
		source:  src,
		mission: data,
		log:     log,
		cfg:     cfg,
	}
}

// Start launches the janitor that evicts idle sessions.
func (m *Manager) Start(ctx context.Context) {
	janitorCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-janitorCtx.Done():
				return
			case now := <-ticker.C:
				if n := m.store.Cleanup(now); n > 0 {
					m.log.Info("evicted idle sessions", "count", n, "live", m.store.Len())
				}
			}
		}
	}()
}

// Stop halts the janitor.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Create loads a fresh page and registers it under a new session id.
func (m *Manager) Create() (*Session, error) {
	doc, err := m.source.Loader.Load(bytes.NewReader(m.source.Data), m.source.Filename)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", m.source.Filename, err)
	}

	id := uuid.NewString()
	scroll := &page.ScrollRecorder{}
	clip := &Clipboard{}

	opts := page.DefaultOptions()
	opts.Mission = m.mission
	opts.Scroller = scroll
	opts.Clipboard = clip

	p, err := page.New(doc, opts, m.log.With("session_id", id))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		page:      p,
		scroll:    scroll,
		clipboard: clip,
	}
	if err := m.store.Put(sess); err != nil {
		return nil, err
	}
	m.log.Info("session created", "session_id", id, "sections", p.Outline.Len(), "tables", len(p.Tables))
	return sess, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	return m.store.Get(id)
}

// Delete ends a session.
func (m *Manager) Delete(id string) error {
	if !m.store.Delete(id) {
		return ErrNotFound
	}
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int { return m.store.Len() }
