package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/artpar/sportsgate/adapters/catalog"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestParse(t *testing.T) {
	c, err := catalog.Parse([]byte("Football:\n  - A vs B\nrugby: []\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !reflect.DeepEqual(c.Fixtures("football"), []string{"A vs B"}) {
		t.Errorf("football = %v", c.Fixtures("football"))
	}
	if !reflect.DeepEqual(c.Sports(), []string{"football", "rugby"}) {
		t.Errorf("Sports() = %v", c.Sports())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"empty", "", catalog.ErrEmpty},
		{"empty map", "{}", catalog.ErrEmpty},
		{"wrong shape", "- a\n- b\n", nil},
		{"fixtures not a list", "football: 3\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewHolder_EmptyPathUsesBuiltin(t *testing.T) {
	h, err := catalog.NewHolder("", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	if got := h.Fixtures("football"); len(got) != 3 {
		t.Errorf("football = %v, want 3 built-in fixtures", got)
	}
	if err := h.WatchFile(); err != nil {
		t.Errorf("WatchFile on builtin = %v, want nil", err)
	}
	if err := h.Reload(); err != nil {
		t.Errorf("Reload on builtin = %v, want nil", err)
	}
	h.Stop()
	h.Stop()
}

func TestNewHolder_MissingFile(t *testing.T) {
	_, err := catalog.NewHolder(filepath.Join(t.TempDir(), "nope.yaml"), zerolog.Nop())
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHolder_FixturesReturnsCopy(t *testing.T) {
	h := catalog.NewBuiltin(zerolog.Nop())

	got := h.Fixtures("chess")
	got[0] = "changed"

	if h.Fixtures("chess")[0] == "changed" {
		t.Error("Fixtures should return a copy")
	}
}

func TestHolder_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeFile(t, path, "football:\n  - Old A vs B\n")

	h, err := catalog.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	var (
		mu      sync.Mutex
		results []error
	)
	h.OnReload(func(err error) {
		mu.Lock()
		results = append(results, err)
		mu.Unlock()
	})

	writeFile(t, path, "football:\n  - New C vs D\n")
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := h.Fixtures("football"); !reflect.DeepEqual(got, []string{"New C vs D"}) {
		t.Errorf("after reload football = %v", got)
	}

	writeFile(t, path, "::: not yaml")
	if err := h.Reload(); err == nil {
		t.Error("expected reload error for invalid file")
	}
	if got := h.Fixtures("football"); !reflect.DeepEqual(got, []string{"New C vs D"}) {
		t.Errorf("failed reload should keep previous catalog, got %v", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 2 || results[0] != nil || results[1] == nil {
		t.Errorf("hook results = %v, want [nil, error]", results)
	}
}

func TestHolder_WatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeFile(t, path, "tennis:\n  - One\n")

	h, err := catalog.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}
	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer h.Stop()

	writeFile(t, path, "tennis:\n  - Two\n")

	ok := waitFor(t, func() bool {
		got := h.Fixtures("tennis")
		return len(got) == 1 && got[0] == "Two"
	})
	if !ok {
		t.Errorf("watcher did not pick up change, tennis = %v", h.Fixtures("tennis"))
	}
}
