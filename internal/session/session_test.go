package session

import (
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/reportview/internal/loader"
	"github.com/dgallion1/reportview/internal/mission"
	"github.com/dgallion1/reportview/internal/page"
)

const report = `<html><head><title>R</title></head><body><main>` +
	`<h1 id="a">A</h1><p>a</p><h2 id="b">B</h2><p>b</p>` +
	`</main></body></html>`

func newManager(max int) *Manager {
	src := Source{Filename: "r.html", Data: []byte(report), Loader: &loader.HTMLLoader{}}
	return NewManager(src, mission.DefaultData(), Config{TTL: time.Minute, MaxSessions: max}, nil)
}

func TestStore_PutGetDelete(t *testing.T) {
	s := NewStore(time.Minute, 0)
	sess := &Session{ID: "s1", UpdatedAt: time.Now()}
	if err := s.Put(sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.Get("s1")
	if err != nil || got != sess {
		t.Fatalf("expected stored session, got %v (%v)", got, err)
	}
	if !s.Delete("s1") {
		t.Error("expected delete to report existing session")
	}
	if s.Delete("s1") {
		t.Error("expected second delete to report missing")
	}
	if _, err := s.Get("s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Limit(t *testing.T) {
	s := NewStore(time.Minute, 1)
	s.Put(&Session{ID: "a"})
	if err := s.Put(&Session{ID: "b"}); !errors.Is(err, ErrLimitReached) {
		t.Errorf("expected ErrLimitReached, got %v", err)
	}
}

func TestStore_Cleanup(t *testing.T) {
	s := NewStore(time.Minute, 0)
	now := time.Now()
	s.Put(&Session{ID: "old", UpdatedAt: now.Add(-2 * time.Minute)})
	s.Put(&Session{ID: "fresh", UpdatedAt: now.Add(-30 * time.Second)})

	if n := s.Cleanup(now); n != 1 {
		t.Errorf("expected 1 eviction, got %d", n)
	}
	if _, err := s.Get("old"); !errors.Is(err, ErrNotFound) {
		t.Error("expected old session evicted")
	}
	if _, err := s.Get("fresh"); err != nil {
		t.Error("expected fresh session kept")
	}
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := newManager(0)
	s1, err := m.Create()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := m.Create()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.ID == s2.ID {
		t.Fatal("expected distinct session ids")
	}

	s1.Do(func(p *page.Page) error {
		p.CollapseAll()
		return nil
	})
	s2.Do(func(p *page.Page) error {
		if p.Outline.AllCollapsed() {
			t.Error("expected second session unaffected")
		}
		if p.Outline.Len() != 2 {
			t.Errorf("expected 2 sections, got %d", p.Outline.Len())
		}
		return nil
	})
	if m.Len() != 2 {
		t.Errorf("expected 2 live sessions, got %d", m.Len())
	}
	if err := m.Delete(s1.ID); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := m.Delete(s1.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_Limit(t *testing.T) {
	m := newManager(1)
	if _, err := m.Create(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Create(); !errors.Is(err, ErrLimitReached) {
		t.Errorf("expected ErrLimitReached, got %v", err)
	}
}

func TestSession_DrainsRecorders(t *testing.T) {
	m := newManager(0)
	sess, _ := m.Create()
	sess.Do(func(p *page.Page) error {
		p.Navigate("#b")
		if got := sess.Scrolls(); len(got) != 1 || got[0].TargetID != "b" {
			t.Errorf("unexpected scrolls %+v", got)
		}
		if got := sess.Scrolls(); len(got) != 0 {
			t.Errorf("expected drained scrolls, got %+v", got)
		}
		return nil
	})
}

func TestReadSource(t *testing.T) {
	if _, err := ReadSource("report.rtf", loader.Options{}); !errors.Is(err, loader.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if _, err := ReadSource("does-not-exist.html", loader.Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestContentHashHex(t *testing.T) {
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got := ContentHashHex([]byte("hello world")); got != want {
		t.Errorf("expected hash %q, got %q", want, got)
	}
}
