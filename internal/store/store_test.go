package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mooers.net/trac64/internal/form"
)

func sampleImages() []form.Image {
	return []form.Image{
		{Name: "greet", Body: "hello, !", Gaps: []form.Gap{{Pos: 7, Arg: 0}}},
		{Name: "plain", Body: "just text"},
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	if err := s.SaveAll("b1", sampleImages()); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	imgs, err := s.LoadAll("b1")
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(imgs) != 2 {
		t.Fatalf("expected 2 images, got %d", len(imgs))
	}
	if imgs[0].Name != "greet" || imgs[1].Name != "plain" {
		t.Errorf("save order not preserved: %v", imgs)
	}
	if len(imgs[0].Gaps) != 1 || imgs[0].Gaps[0].Pos != 7 {
		t.Errorf("gap metadata lost: %v", imgs[0].Gaps)
	}

	if err := s.Erase("b1"); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if _, err := s.LoadAll("b1"); !errors.Is(err, ErrNoBlock) {
		t.Errorf("expected ErrNoBlock after erase, got %v", err)
	}
	if err := s.Erase("b1"); !errors.Is(err, ErrNoBlock) {
		t.Errorf("expected ErrNoBlock erasing twice, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}

	if err := s.SaveAll("fact", sampleImages()); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	// Saving again must replace, not append
	if err := s.SaveAll("fact", sampleImages()[:1]); err != nil {
		t.Fatalf("second SaveAll failed: %v", err)
	}
	imgs, err := s.LoadAll("fact")
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(imgs) != 1 {
		t.Fatalf("expected 1 image after replace, got %d", len(imgs))
	}
	if imgs[0].Name != "greet" || imgs[0].Body != "hello, !" {
		t.Errorf("unexpected image: %+v", imgs[0])
	}
	if len(imgs[0].Gaps) != 1 || imgs[0].Gaps[0].Arg != 0 {
		t.Errorf("gap metadata lost: %v", imgs[0].Gaps)
	}

	if _, err := s.LoadAll("nope"); !errors.Is(err, ErrNoBlock) {
		t.Errorf("expected ErrNoBlock for unknown block, got %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen and check persistence
	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s2.Close()

	imgs, err = s2.LoadAll("fact")
	if err != nil {
		t.Fatalf("LoadAll after reopen failed: %v", err)
	}
	if len(imgs) != 1 || imgs[0].Name != "greet" {
		t.Errorf("block did not survive reopen: %v", imgs)
	}

	if err := s2.Erase("fact"); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if _, err := s2.LoadAll("fact"); !errors.Is(err, ErrNoBlock) {
		t.Errorf("expected ErrNoBlock after erase, got %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

// A block saved with no forms must still round-trip; only a block that was
// never saved (or was erased) yields ErrNoBlock.
func TestEmptyBlockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.db")
	sq, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	defer sq.Close()

	stores := map[string]blockStore{
		"memory": NewMemory(),
		"sqlite": sq,
	}
	for name, s := range stores {
		if err := s.SaveAll("blk", nil); err != nil {
			t.Fatalf("%s: empty SaveAll failed: %v", name, err)
		}
		imgs, err := s.LoadAll("blk")
		if err != nil {
			t.Fatalf("%s: LoadAll after empty SaveAll failed: %v", name, err)
		}
		if len(imgs) != 0 {
			t.Errorf("%s: expected empty block, got %v", name, imgs)
		}

		// emptying a populated block keeps the block
		if err := s.SaveAll("blk", sampleImages()); err != nil {
			t.Fatalf("%s: SaveAll failed: %v", name, err)
		}
		if err := s.SaveAll("blk", nil); err != nil {
			t.Fatalf("%s: re-save empty failed: %v", name, err)
		}
		imgs, err = s.LoadAll("blk")
		if err != nil {
			t.Fatalf("%s: LoadAll after emptying failed: %v", name, err)
		}
		if len(imgs) != 0 {
			t.Errorf("%s: expected emptied block, got %v", name, imgs)
		}

		if err := s.Erase("blk"); err != nil {
			t.Fatalf("%s: Erase failed: %v", name, err)
		}
		if _, err := s.LoadAll("blk"); !errors.Is(err, ErrNoBlock) {
			t.Errorf("%s: expected ErrNoBlock after erase, got %v", name, err)
		}
	}
}

func TestSQLiteSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	if err := s.setMetadata("schema_version", "99"); err != nil {
		t.Fatalf("setMetadata failed: %v", err)
	}
	s.Close()

	if _, err := NewSQLite(path); err == nil {
		t.Fatal("expected error opening future schema version")
	}
}
