package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fswrangler/fswrangler/pkg/backup"
	"github.com/fswrangler/fswrangler/pkg/errors"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Content.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	repo := NewRepository(path, nil)

	col, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if col.Len() != 5 {
		t.Fatalf("Len = %d, want 5", col.Len())
	}

	r := col.Get(1)
	if r.Name != "fs24-acme-airport-egll-x" {
		t.Errorf("name = %q", r.Name)
	}
	if r.Status != UserDisabled || r.OriginalStatus != UserDisabled {
		t.Errorf("status = %v / %v", r.Status, r.OriginalStatus)
	}
	if r.Category != "Airport" || r.Vendor != "acme" {
		t.Errorf("classification = %q / %q", r.Category, r.Vendor)
	}
	if r.Ordinal != 1 {
		t.Errorf("ordinal = %d, want 1", r.Ordinal)
	}

	// Missing active attribute defaults to Activated, never to a disabled
	// state.
	if got := col.Get(4).Status; got != Activated {
		t.Errorf("defaulted status = %v, want Activated", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "nope.xml"), nil)
	_, err := repo.Load(context.Background())
	if err == nil {
		t.Fatal("Load succeeded on missing file")
	}
	if !errors.Is(err, errors.ErrCodeManifestNotFound) {
		t.Errorf("error code = %v, want MANIFEST_NOT_FOUND", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "nope.xml") {
		t.Errorf("error does not name the path: %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeManifest(t, "<Content><Package name='x'")
	repo := NewRepository(path, nil)
	_, err := repo.Load(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("error code = %v, want INVALID_MANIFEST", errors.GetCode(err))
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	repo := NewRepository(path, nil)
	ctx := context.Background()

	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// No changes: the file must come back byte-identical.
	pruned, err := repo.Save(ctx, col, false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned = %d, want 0", pruned)
	}
	got, _ := os.ReadFile(path)
	if string(got) != sampleManifest {
		t.Errorf("no-op save changed the file:\n%s", got)
	}
}

func TestSavePatchesStatuses(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	repo := NewRepository(path, nil)
	ctx := context.Background()

	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !col.SetStatusByName("fs-base", UserDisabled) {
		t.Fatal("SetStatusByName failed")
	}

	if _, err := repo.Save(ctx, col, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _ := os.ReadFile(path)
	if !strings.Contains(string(got), `<Package name="fs-base" active="UserDisabled"/>`) {
		t.Errorf("status not persisted:\n%s", got)
	}

	// Dirty state is the caller's to clear; Save itself must not touch it.
	if len(col.DirtyChanges()) != 1 {
		t.Error("Save cleared dirty state")
	}
	col.ClearDirty()
	if len(col.DirtyChanges()) != 0 {
		t.Error("ClearDirty after save left dirty records")
	}
}

func TestSavePrune(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	repo := NewRepository(path, nil)
	ctx := context.Background()

	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	pruned, err := repo.Save(ctx, col, true)
	if err != nil {
		t.Fatal(err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	got, _ := os.ReadFile(path)
	if strings.Contains(string(got), "communityfs20-") {
		t.Errorf("legacy entries survive:\n%s", got)
	}
}

func TestSaveHonorsExternalEdits(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	repo := NewRepository(path, nil)
	ctx := context.Background()

	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Another process appends an element after our load.
	edited := strings.Replace(sampleManifest, "</Content>",
		`  <Package name="externally-added" active="Activated"/>`+"\n</Content>", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}

	col.SetStatusByName("fs-base", UserDisabled)
	if _, err := repo.Save(ctx, col, false); err != nil {
		t.Fatal(err)
	}

	got, _ := os.ReadFile(path)
	if !strings.Contains(string(got), "externally-added") {
		t.Error("save clobbered an externally added element")
	}
	if !strings.Contains(string(got), `name="fs-base" active="UserDisabled"`) {
		t.Error("save lost our status change")
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	repo := NewRepository(path, nil)
	ctx := context.Background()

	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Save(ctx, col, false); err != nil {
		t.Fatal(err)
	}

	backups := repo.Backups.List(path)
	if len(backups) != 1 {
		t.Fatalf("backups = %d, want 1", len(backups))
	}
	b, _ := os.ReadFile(backups[0])
	if string(b) != sampleManifest {
		t.Error("backup content differs from pre-save manifest")
	}
}

func TestSaveAbortsWhenBackupFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Content.xml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	// A file where the backup directory should be makes MkdirAll fail.
	if err := os.WriteFile(filepath.Join(dir, "_backup"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewRepository(path, nil)
	ctx := context.Background()
	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	col.SetStatusByName("fs-base", UserDisabled)

	_, err = repo.Save(ctx, col, false)
	if !errors.Is(err, errors.ErrCodeBackupFailed) {
		t.Fatalf("error code = %v, want BACKUP_FAILED", errors.GetCode(err))
	}

	got, _ := os.ReadFile(path)
	if string(got) != sampleManifest {
		t.Error("failed save modified the manifest")
	}
}

func TestSaveAtomicUnderWriteFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not bind for root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "Content.xml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	// Pre-create a writable backup dir, then lock the parent so the temp
	// file cannot be created.
	if err := os.Mkdir(filepath.Join(dir, "_backup"), 0o755); err != nil {
		t.Fatal(err)
	}

	repo := NewRepository(path, nil)
	repo.Backups = backup.New(1)
	ctx := context.Background()
	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	col.SetStatusByName("fs-base", UserDisabled)

	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	_, err = repo.Save(ctx, col, false)
	if err == nil {
		t.Fatal("Save succeeded with unwritable directory")
	}

	os.Chmod(dir, 0o755)
	got, _ := os.ReadFile(path)
	if string(got) != sampleManifest {
		t.Error("failed save corrupted the manifest")
	}
}

func TestSaveIsRetryable(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	repo := NewRepository(path, nil)
	ctx := context.Background()

	col, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	col.SetStatusByName("fs-base", UserDisabled)

	for i := 0; i < 2; i++ {
		if _, err := repo.Save(ctx, col, false); err != nil {
			t.Fatalf("save attempt %d: %v", i, err)
		}
	}
	got, _ := os.ReadFile(path)
	if !strings.Contains(string(got), `name="fs-base" active="UserDisabled"`) {
		t.Error("repeated save lost the change")
	}
}
