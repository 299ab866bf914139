package archive

import (
	"context"
	"io"
	"strings"
	"testing"
)

func drivers(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			info, err := store.Put(ctx, "checks/one.json", strings.NewReader(`{"overall":"OK"}`), PutOptions{
				ContentType: "application/json",
				Metadata:    map[string]string{"overall": "OK"},
			})
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if info.Key != "checks/one.json" || info.Size == 0 {
				t.Fatalf("unexpected info %+v", info)
			}

			// Put is create-only.
			if _, err := store.Put(ctx, "checks/one.json", strings.NewReader("x"), PutOptions{}); err == nil {
				t.Fatalf("expected duplicate put to fail")
			}

			got, body, err := store.Get(ctx, "checks/one.json")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			data, err := io.ReadAll(body)
			_ = body.Close()
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !strings.Contains(string(data), "OK") {
				t.Fatalf("unexpected content %q", data)
			}
			if got.ContentType != "application/json" {
				t.Fatalf("content type lost: %+v", got)
			}

			head, err := store.Head(ctx, "checks/one.json")
			if err != nil {
				t.Fatalf("head: %v", err)
			}
			if head.Metadata["overall"] != "OK" {
				t.Fatalf("metadata lost: %+v", head)
			}

			if _, err := store.Put(ctx, "checks/two.json", strings.NewReader("{}"), PutOptions{}); err != nil {
				t.Fatalf("second put: %v", err)
			}
			infos, err := store.List(ctx, "checks/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(infos) != 2 || infos[0].Key != "checks/one.json" {
				t.Fatalf("unexpected listing %+v", infos)
			}

			removed, err := store.Delete(ctx, "checks/one.json")
			if err != nil || !removed {
				t.Fatalf("delete: removed=%v err=%v", removed, err)
			}
			removed, err = store.Delete(ctx, "checks/one.json")
			if err != nil || removed {
				t.Fatalf("second delete must be a no-op: removed=%v err=%v", removed, err)
			}
		})
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem store: %v", err)
	}
	for _, key := range []string{"", "/abs", "../escape", "a/../../b"} {
		if _, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{}); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
}

func TestMemoryPresignUnsupported(t *testing.T) {
	if _, err := NewMemory().PresignURL(context.Background(), "k", SignedURLOptions{}); err != ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Setenv("CHROMAX_ARCHIVE_DRIVER", "memory")
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", store.Driver())
	}

	t.Setenv("CHROMAX_ARCHIVE_DRIVER", "tape")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestOpenS3RequiresBucket(t *testing.T) {
	t.Setenv("CHROMAX_ARCHIVE_DRIVER", "s3")
	t.Setenv("CHROMAX_ARCHIVE_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}
