package cache

import (
	"os"
	"testing"
	"time"
)

func TestGetTitleMissing(t *testing.T) {
	c := NewCacheAt(t.TempDir())

	if got := c.GetTitle("abc123def45"); got != "" {
		t.Errorf("GetTitle() on empty cache = %q, want empty", got)
	}
}

func TestSaveAndGetTitle(t *testing.T) {
	c := NewCacheAt(t.TempDir())

	if err := c.SaveTitle("abc123def45", "Some Song"); err != nil {
		t.Fatalf("SaveTitle() error = %v", err)
	}

	if got := c.GetTitle("abc123def45"); got != "Some Song" {
		t.Errorf("GetTitle() = %q, want %q", got, "Some Song")
	}
}

func TestGetTitleExpired(t *testing.T) {
	c := NewCacheAt(t.TempDir())
	c.expiry = time.Millisecond

	if err := c.SaveTitle("abc123def45", "Some Song"); err != nil {
		t.Fatal(err)
	}

	// Backdate the file past the expiry
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(c.titlePath("abc123def45"), old, old); err != nil {
		t.Fatal(err)
	}

	if got := c.GetTitle("abc123def45"); got != "" {
		t.Errorf("GetTitle() on expired entry = %q, want empty", got)
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewCacheAt(t.TempDir())

	if err := c.SaveTitle("fresh1234567", "Fresh"); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveTitle("stale1234567", "Stale"); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-2 * DefaultExpiry)
	if err := os.Chtimes(c.titlePath("stale1234567"), old, old); err != nil {
		t.Fatal(err)
	}

	if err := c.CleanExpired(); err != nil {
		t.Fatalf("CleanExpired() error = %v", err)
	}

	if got := c.GetTitle("fresh1234567"); got != "Fresh" {
		t.Errorf("fresh entry removed, GetTitle() = %q", got)
	}
	if got := c.GetTitle("stale1234567"); got != "" {
		t.Errorf("stale entry survived, GetTitle() = %q", got)
	}
}

func TestCleanExpiredMissingDir(t *testing.T) {
	c := NewCacheAt(t.TempDir())

	if err := c.CleanExpired(); err != nil {
		t.Errorf("CleanExpired() on missing dir = %v, want nil", err)
	}
}
