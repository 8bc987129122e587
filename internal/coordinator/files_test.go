package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/good-yellow-bee/collabhub/internal/store"
)

func TestFileInfo_Extension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", "pdf"},
		{"archive.tar.gz", "gz"},
		{"Makefile", "file"},
		{"notes.", "file"},
	}
	for _, tt := range tests {
		if got := (FileInfo{Name: tt.name}).Extension(); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.0 MB"},
		{1572864, "1.5 MB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFileSharing_Filter(t *testing.T) {
	f := NewFileSharing(newTestStore(t), testConfig())
	defer f.Close()

	f.SetTypeFilter("pdf")
	if got := len(f.Files()); got != 2 {
		t.Errorf("len(Files()) pdf = %d, want 2", got)
	}

	f.SetSearch("sensor")
	got := f.Files()
	if len(got) != 1 || got[0].ID != "6" {
		t.Errorf("Files() = %v, want file 6", got)
	}

	if got := len(f.Types()); got != 5 {
		t.Errorf("len(Types()) = %d, want 5", got)
	}
}

func TestFileSharing_DeleteClearsPreview(t *testing.T) {
	st := newTestStore(t)
	f := NewFileSharing(st, testConfig())
	defer f.Close()

	if err := f.Select("4"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if err := f.Delete("4"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := f.Selected(); ok {
		t.Error("Selected() ok after deleting the previewed file")
	}
	if err := f.Delete("4"); !store.IsNotFound(err) {
		t.Errorf("Delete() twice error = %v, want NotFoundError", err)
	}
	if got := len(st.Snapshot().Files); got != 5 {
		t.Errorf("len(Files) = %d, want 5", got)
	}
}

func waitUpload(t *testing.T, u *Upload) {
	t.Helper()
	select {
	case <-u.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("upload did not finish")
	}
}

func TestFileSharing_UploadCompletes(t *testing.T) {
	st := newTestStore(t)
	f := NewFileSharing(st, testConfig())
	defer f.Close()

	u, err := f.StartUpload(context.Background(), FileInfo{Name: "notes.md", Size: 1572864, ProjectID: "2"})
	if err != nil {
		t.Fatalf("StartUpload() error = %v", err)
	}
	waitUpload(t, u)

	if u.State() != UploadCompleted || u.Progress() != 100 {
		t.Fatalf("upload = %+v, want completed at 100", u.Status())
	}
	file, err := u.File()
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}

	want := map[string]string{
		"id":          "7",
		"type":        "md",
		"size":        "1.5 MB",
		"uploader_id": "1",
		"upload_date": "2025-11-16",
		"project_id":  "2",
	}
	got := map[string]string{
		"id":          file.ID,
		"type":        file.Type,
		"size":        file.Size,
		"uploader_id": file.UploaderID,
		"upload_date": file.UploadDate,
		"project_id":  file.ProjectID,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("file.%s = %q, want %q", k, got[k], v)
		}
	}
	if file.Version != 1 {
		t.Errorf("file.Version = %d, want 1", file.Version)
	}

	if got := len(st.Snapshot().Files); got != 7 {
		t.Errorf("len(Files) = %d, want 7", got)
	}
	if ups := f.Uploads(); len(ups) != 1 || ups[0].ID != u.ID {
		t.Errorf("Uploads() = %v, want the one upload", ups)
	}
}

func TestFileSharing_UploadProgressSteps(t *testing.T) {
	cfg := testConfig()
	cfg.UploadInterval = 20 * time.Millisecond
	f := NewFileSharing(newTestStore(t), cfg)
	defer f.Close()

	u, err := f.StartUpload(context.Background(), FileInfo{Name: "a.txt", Size: 10})
	if err != nil {
		t.Fatalf("StartUpload() error = %v", err)
	}

	last := 0
	for {
		select {
		case <-u.Done():
			if u.Progress() != 100 {
				t.Errorf("final progress = %d, want 100", u.Progress())
			}
			return
		case <-time.After(5 * time.Millisecond):
		}
		p := u.Progress()
		if p < last || p%10 != 0 {
			t.Fatalf("progress %d after %d, want non-decreasing multiples of 10", p, last)
		}
		last = p
	}
}

func TestFileSharing_UploadCancel(t *testing.T) {
	st := newTestStore(t)
	cfg := testConfig()
	cfg.UploadInterval = time.Hour
	f := NewFileSharing(st, cfg)
	defer f.Close()

	u, err := f.StartUpload(context.Background(), FileInfo{Name: "big.zip", Size: 1 << 30})
	if err != nil {
		t.Fatalf("StartUpload() error = %v", err)
	}
	if err := f.CancelUpload(u.ID); err != nil {
		t.Fatalf("CancelUpload() error = %v", err)
	}
	waitUpload(t, u)

	if u.State() != UploadCancelled {
		t.Errorf("State() = %q, want cancelled", u.State())
	}
	if got := len(st.Snapshot().Files); got != 6 {
		t.Errorf("len(Files) = %d, want 6 (nothing stored)", got)
	}

	// Cancelling again is a no-op.
	u.Cancel()
	if u.State() != UploadCancelled {
		t.Errorf("State() after second Cancel = %q", u.State())
	}

	if err := f.CancelUpload("missing"); !store.IsNotFound(err) {
		t.Errorf("CancelUpload(missing) error = %v, want NotFoundError", err)
	}
}

func TestFileSharing_UploadContextCancel(t *testing.T) {
	cfg := testConfig()
	cfg.UploadInterval = time.Hour
	f := NewFileSharing(newTestStore(t), cfg)
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	u, err := f.StartUpload(ctx, FileInfo{Name: "a.pdf", Size: 100})
	if err != nil {
		t.Fatalf("StartUpload() error = %v", err)
	}
	cancel()
	waitUpload(t, u)

	if u.State() != UploadCancelled {
		t.Errorf("State() = %q, want cancelled", u.State())
	}
}

func TestFileSharing_CloseCancelsUploads(t *testing.T) {
	st := newTestStore(t)
	cfg := testConfig()
	cfg.UploadInterval = time.Hour
	f := NewFileSharing(st, cfg)

	u, err := f.StartUpload(context.Background(), FileInfo{Name: "a.pdf", Size: 100})
	if err != nil {
		t.Fatalf("StartUpload() error = %v", err)
	}
	f.Close()
	waitUpload(t, u)

	if u.State() != UploadCancelled {
		t.Errorf("State() = %q, want cancelled", u.State())
	}
	if _, err := f.StartUpload(context.Background(), FileInfo{Name: "b.pdf"}); !errors.Is(err, ErrClosed) {
		t.Errorf("StartUpload() after Close error = %v, want ErrClosed", err)
	}
	if got := len(st.Snapshot().Files); got != 6 {
		t.Errorf("len(Files) = %d, want 6", got)
	}
}

func TestFileSharing_UploadValidation(t *testing.T) {
	f := NewFileSharing(newTestStore(t), testConfig())
	defer f.Close()

	_, err := f.StartUpload(context.Background(), FileInfo{Name: " "})
	wantValidation(t, err, "name")
	_, err = f.StartUpload(context.Background(), FileInfo{Name: "a.txt", Size: -1})
	wantValidation(t, err, "size")
}

func TestFileSharing_UploadUnknownProjectFails(t *testing.T) {
	f := NewFileSharing(newTestStore(t), testConfig())
	defer f.Close()

	u, err := f.StartUpload(context.Background(), FileInfo{Name: "a.txt", Size: 1, ProjectID: "42"})
	if err != nil {
		t.Fatalf("StartUpload() error = %v", err)
	}
	waitUpload(t, u)

	if u.State() != UploadFailed {
		t.Errorf("State() = %q, want failed", u.State())
	}
	if _, err := u.File(); err == nil {
		t.Error("File() error = nil, want the store error")
	}
	if u.Status().Error == "" {
		t.Error("Status().Error is empty")
	}
}
