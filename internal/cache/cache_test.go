package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramzilbs/radiance/internal/model"
)

func TestFileKey(t *testing.T) {
	mtime := time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC)
	base := FileKey("/agendas/mars.docx", 1024, mtime, "y2024")

	if base == FileKey("/agendas/avril.docx", 1024, mtime, "y2024") {
		t.Error("different paths produced the same key")
	}
	if base == FileKey("/agendas/mars.docx", 2048, mtime, "y2024") {
		t.Error("different sizes produced the same key")
	}
	if base == FileKey("/agendas/mars.docx", 1024, mtime.Add(time.Second), "y2024") {
		t.Error("different mtimes produced the same key")
	}
	if base == FileKey("/agendas/mars.docx", 1024, mtime, "y2023") {
		t.Error("different policies produced the same key")
	}
	if base != FileKey("/agendas/mars.docx", 1024, mtime, "y2024") {
		t.Error("key is not deterministic")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("absent"); found {
		t.Error("hit on absent key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if got, found := c.Get("k"); !found || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("hit after delete")
	}
}

func TestDiskCache_Roundtrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if got, found := c.Get("k"); !found || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("hit on expired entry")
	}
}

func TestDiskCache_CorruptEntryDropped(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	path := filepath.Join(dir, "k.cache")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, found := c.Get("k"); found {
		t.Error("hit on corrupt entry")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestDiskCache_ClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	foreign := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(foreign, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, found := c.Get("k"); found {
		t.Error("hit after clear")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("clear removed a non-cache file")
	}
}

func testDates() model.DateConfig {
	return model.DateConfig{
		ReferenceYear:     2024,
		RollbackTolerance: 7 * 24 * time.Hour,
		MinYear:           2000,
		MaxYear:           2030,
	}
}

var testNow = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func TestRecordStore(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "mars.docx")
	if err := os.WriteFile(doc, []byte("agenda"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewRecordStore(filepath.Join(dir, "cache"), time.Minute, testDates(), testNow)

	if _, found := store.Lookup(doc); found {
		t.Error("hit before store")
	}

	visit := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	records := []model.RawRecord{
		{Name: "Dupont Marie", Phone: "0612345678", VisitDate: &visit,
			Source: model.SourceRef{Document: "mars.docx", Table: 0, Row: 1}},
	}
	if err := store.Store(doc, records); err != nil {
		t.Fatal(err)
	}

	got, found := store.Lookup(doc)
	if !found {
		t.Fatal("miss after store")
	}
	if len(got) != 1 || got[0].Name != "Dupont Marie" || got[0].VisitDate == nil {
		t.Errorf("records = %+v", got)
	}
	if !got[0].VisitDate.Equal(visit) {
		t.Errorf("visit = %v, want %v", got[0].VisitDate, visit)
	}

	// A second store sees the entry even through a fresh instance: the
	// disk layer carries it across runs.
	fresh := NewRecordStore(filepath.Join(dir, "cache"), time.Minute, testDates(), testNow)
	if _, found := fresh.Lookup(doc); !found {
		t.Error("miss through fresh store, disk layer not persisted")
	}
}

func TestRecordStore_DatePolicyChangeMisses(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "mars.docx")
	if err := os.WriteFile(doc, []byte("agenda"), 0o644); err != nil {
		t.Fatal(err)
	}
	cacheDir := filepath.Join(dir, "cache")

	store := NewRecordStore(cacheDir, time.Minute, testDates(), testNow)
	if err := store.Store(doc, []model.RawRecord{{Name: "Dupont Marie"}}); err != nil {
		t.Fatal(err)
	}

	// Records cached under one reference year must not answer a run with
	// another: the embedded dates were resolved under the old policy.
	otherYear := testDates()
	otherYear.ReferenceYear = 2023
	if _, found := NewRecordStore(cacheDir, time.Minute, otherYear, testNow).Lookup(doc); found {
		t.Error("hit across a reference-year change")
	}

	// Same for an implicit year: reference year 0 resolves to the
	// processing year, so a run a year later misses too.
	implicit := testDates()
	implicit.ReferenceYear = 0
	implicitStore := NewRecordStore(cacheDir, time.Minute, implicit, testNow)
	if err := implicitStore.Store(doc, []model.RawRecord{{Name: "Dupont Marie"}}); err != nil {
		t.Fatal(err)
	}
	nextYear := NewRecordStore(cacheDir, time.Minute, implicit, testNow.AddDate(1, 0, 0))
	if _, found := nextYear.Lookup(doc); found {
		t.Error("hit across an implicit-year rollover")
	}

	// An unchanged policy still hits.
	same := NewRecordStore(cacheDir, time.Minute, testDates(), testNow)
	if _, found := same.Lookup(doc); !found {
		t.Error("miss with identical policy")
	}
}

func TestRecordStore_EditedDocumentMisses(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "mars.docx")
	if err := os.WriteFile(doc, []byte("agenda"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewRecordStore(filepath.Join(dir, "cache"), time.Minute, testDates(), testNow)
	if err := store.Store(doc, []model.RawRecord{{Name: "Dupont Marie"}}); err != nil {
		t.Fatal(err)
	}

	// Growing the file changes its identity key.
	if err := os.WriteFile(doc, []byte("agenda with new rows"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, found := store.Lookup(doc); found {
		t.Error("hit on edited document")
	}
}

func TestRecordStore_MissingFile(t *testing.T) {
	store := NewRecordStore(t.TempDir(), time.Minute, testDates(), testNow)
	if _, found := store.Lookup("/absent/file.docx"); found {
		t.Error("hit on missing file")
	}
	if err := store.Store("/absent/file.docx", nil); err != nil {
		t.Errorf("store of missing file errored: %v", err)
	}
}
