package blob

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	appcfg "github.com/jacobdcook/daily-wellness-scheduler-sub002/internal/config"
)

func TestNewBlobStoreLocalForced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	store, mode, err := NewBlobStore(appcfg.BlobConfig{
		Mode:     appcfg.BlobModeLocal,
		LocalDir: t.TempDir(),
		S3:       appcfg.S3Config{},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local, got %s", mode)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("expected LocalStore, got %T", store)
	}
	if !strings.Contains(buf.String(), "mode=local (forced)") {
		t.Fatalf("expected local mode log, got: %s", buf.String())
	}
}

func TestNewBlobStoreAutoEmptyS3FallsBackToLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	_, mode, err := NewBlobStore(appcfg.BlobConfig{
		Mode:     appcfg.BlobModeAuto,
		LocalDir: t.TempDir(),
		S3:       appcfg.S3Config{},
	}, logger)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mode != appcfg.BlobModeLocal {
		t.Fatalf("expected mode=local fallback, got %s", mode)
	}

	logOut := buf.String()
	if !strings.Contains(logOut, "code=s3_not_configured") {
		t.Fatalf("expected s3_not_configured diagnostics, got: %s", logOut)
	}
	if !strings.Contains(logOut, "mode=local (auto, S3 not configured)") {
		t.Fatalf("expected auto fallback to local log, got: %s", logOut)
	}
}

func TestNewBlobStoreS3ForcedIncompleteFails(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	_, _, err := NewBlobStore(appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3:   appcfg.S3Config{Endpoint: "https://storage.example.com"},
	}, logger)
	if err == nil {
		t.Fatal("expected error for incomplete forced S3 config")
	}
	if !strings.Contains(err.Error(), "S3_BUCKET") {
		t.Fatalf("expected missing keys in error, got: %v", err)
	}
}

func TestNewBlobStoreUnknownMode(t *testing.T) {
	_, _, err := NewBlobStore(appcfg.BlobConfig{Mode: "ftp"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestLocalStorePutGetDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	ctx := context.Background()

	n, err := store.PutObject(ctx, "exports/2024-01-01/plan.json", []byte(`{"ok":true}`), "application/json")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != 11 {
		t.Fatalf("expected 11 bytes written, got %d", n)
	}

	data, err := store.GetObject(ctx, "exports/2024-01-01/plan.json")
	if err != nil || string(data) != `{"ok":true}` {
		t.Fatalf("get: %v data=%s", err, data)
	}

	if err := store.DeleteObject(ctx, "exports/2024-01-01/plan.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetObject(ctx, "exports/2024-01-01/plan.json"); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestLocalStoreRejectsTraversalKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	for _, key := range []string{"../escape", "/abs/path", "."} {
		if _, err := store.PutObject(context.Background(), key, []byte("x"), ""); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
}
