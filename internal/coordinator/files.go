package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/metrics"
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// FileInfo describes a file picked for upload.
type FileInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"` // bytes
	ProjectID string `json:"project_id,omitempty"`
}

// Extension returns the file type recorded for the file: the extension
// without the dot, or "file" when there is none.
func (fi FileInfo) Extension() string {
	ext := strings.TrimPrefix(filepath.Ext(fi.Name), ".")
	if ext == "" {
		return "file"
	}
	return ext
}

// FormatSize renders a byte count in megabytes with one decimal.
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/1024/1024)
}

// UploadState is the lifecycle state of an upload.
type UploadState string

const (
	UploadRunning   UploadState = "uploading"
	UploadCompleted UploadState = "completed"
	UploadCancelled UploadState = "cancelled"
	UploadFailed    UploadState = "failed"
)

// Upload tracks one simulated upload.
type Upload struct {
	ID   string
	Info FileInfo

	mu       sync.Mutex
	progress int
	state    UploadState
	file     *models.File
	err      error
	task     *Task
	done     chan struct{}
	once     sync.Once
}

// UploadStatus is a point-in-time view of an upload.
type UploadStatus struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Progress int          `json:"progress"`
	State    UploadState  `json:"state"`
	File     *models.File `json:"file,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Status returns the upload's current progress and outcome.
func (u *Upload) Status() UploadStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	st := UploadStatus{ID: u.ID, Name: u.Info.Name, Progress: u.progress, State: u.state, File: u.file}
	if u.err != nil {
		st.Error = u.err.Error()
	}
	return st
}

// Progress returns the completed percentage.
func (u *Upload) Progress() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress
}

// State returns the lifecycle state.
func (u *Upload) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// File returns the stored file once the upload has completed.
func (u *Upload) File() (*models.File, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.file, u.err
}

// Done is closed when the upload completes, fails or is cancelled.
func (u *Upload) Done() <-chan struct{} {
	return u.done
}

// Cancel stops an upload in progress. Nothing is written to the store for a
// cancelled upload. Cancelling a finished upload has no effect.
func (u *Upload) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state != UploadRunning {
		return
	}
	u.task.Cancel()
	u.finish(UploadCancelled)
}

// finish must be called with u.mu held.
func (u *Upload) finish(state UploadState) {
	u.once.Do(func() {
		u.state = state
		metrics.UploadsInFlight.Dec()
		close(u.done)
	})
}

// FileSharing coordinates the file list, preview and uploads.
type FileSharing struct {
	base

	search     string
	fileType   string
	selectedID string
	uploads    map[string]*Upload
	order      []string
}

// NewFileSharing creates the file coordinator.
func NewFileSharing(st *store.Store, cfg Config) *FileSharing {
	f := &FileSharing{fileType: views.All, uploads: make(map[string]*Upload)}
	f.init(st, cfg, "files")
	return f
}

// SetSearch sets the file name search text.
func (f *FileSharing) SetSearch(q string) {
	f.mu.Lock()
	f.search = q
	f.mu.Unlock()
}

// SetTypeFilter sets the type filter; views.All shows every type.
func (f *FileSharing) SetTypeFilter(t string) {
	f.mu.Lock()
	f.fileType = t
	f.mu.Unlock()
}

// Query returns the current filter.
func (f *FileSharing) Query() views.FileQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return views.FileQuery{Search: f.search, Type: f.fileType}
}

// Files returns the filtered file list.
func (f *FileSharing) Files() []*models.File {
	return f.Matching(f.Query())
}

// Matching filters the files by q without changing the grid filter.
func (f *FileSharing) Matching(q views.FileQuery) []*models.File {
	return views.FilterFiles(f.store.Snapshot().Files, q)
}

// Types lists the file types present, for the filter dropdown.
func (f *FileSharing) Types() []string {
	return views.FileTypes(f.store.Snapshot().Files)
}

// Select opens the preview for a file.
func (f *FileSharing) Select(id string) error {
	if _, err := f.store.File(id); err != nil {
		return err
	}
	f.mu.Lock()
	f.selectedID = id
	f.mu.Unlock()
	return nil
}

// ClearSelection closes the preview.
func (f *FileSharing) ClearSelection() {
	f.mu.Lock()
	f.selectedID = ""
	f.mu.Unlock()
}

// Selected returns the previewed file, re-read from the store.
func (f *FileSharing) Selected() (*models.File, bool) {
	f.mu.Lock()
	id := f.selectedID
	f.mu.Unlock()
	if id == "" {
		return nil, false
	}
	file, err := f.store.File(id)
	if err != nil {
		return nil, false
	}
	return file, true
}

// Delete removes a file and closes its preview if open.
func (f *FileSharing) Delete(id string) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	if _, err := f.store.DeleteFile(id); err != nil {
		return err
	}
	f.mu.Lock()
	if f.selectedID == id {
		f.selectedID = ""
	}
	f.mu.Unlock()
	return nil
}

// StartUpload begins a simulated upload. Progress advances by the configured
// step on every interval; when it reaches 100 the file metadata is stored
// with the current user as uploader and today as the upload date. The
// upload is cancelled when ctx is done, when Cancel is called, or when the
// coordinator is closed.
func (f *FileSharing) StartUpload(ctx context.Context, info FileInfo) (*Upload, error) {
	if err := required("name", info.Name); err != nil {
		return nil, err
	}
	if info.Size < 0 {
		return nil, &store.ValidationError{Field: "size", Reason: "must be at least 0"}
	}

	u := &Upload{
		ID:    uuid.New().String(),
		Info:  info,
		state: UploadRunning,
		done:  make(chan struct{}),
	}

	// Hold u.mu so the first tick cannot run before u.task is set.
	u.mu.Lock()
	task, err := f.sched.Every(f.cfg.UploadInterval, func(tick context.Context) bool {
		return f.step(tick, u)
	})
	if err != nil {
		u.mu.Unlock()
		return nil, err
	}
	u.task = task
	metrics.UploadsInFlight.Inc()
	u.mu.Unlock()

	stop := context.AfterFunc(ctx, u.Cancel)
	go func() {
		<-task.Done()
		stop()
		// Scheduler shutdown ends the task without going through Cancel.
		u.mu.Lock()
		if u.state == UploadRunning {
			u.finish(UploadCancelled)
		}
		u.mu.Unlock()
	}()

	f.mu.Lock()
	f.uploads[u.ID] = u
	f.order = append(f.order, u.ID)
	f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"upload_id": u.ID,
		"name":      info.Name,
		"size":      info.Size,
	}).Debug("upload started")
	return u, nil
}

// step advances an upload by one tick and reports whether it should keep
// running.
func (f *FileSharing) step(ctx context.Context, u *Upload) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state != UploadRunning || ctx.Err() != nil {
		return false
	}

	u.progress += f.cfg.UploadStep
	if u.progress < 100 {
		return true
	}
	u.progress = 100

	file, err := f.store.UploadFile(store.CreateFileParams{
		Name:       u.Info.Name,
		Type:       u.Info.Extension(),
		Size:       FormatSize(u.Info.Size),
		UploaderID: f.currentUserID(),
		UploadDate: models.FormatDate(f.cfg.Now()),
		ProjectID:  u.Info.ProjectID,
		Version:    1,
		URL:        "#",
	})
	if err != nil {
		u.err = err
		u.finish(UploadFailed)
		logrus.WithError(err).WithField("upload_id", u.ID).Warn("upload failed")
		return false
	}
	u.file = file
	u.finish(UploadCompleted)
	logrus.WithFields(logrus.Fields{
		"upload_id": u.ID,
		"file_id":   file.ID,
	}).Info("upload completed")
	return false
}

// Upload returns an upload by id.
func (f *FileSharing) Upload(id string) (*Upload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[id]
	return u, ok
}

// Uploads returns every upload started by this coordinator, oldest first.
func (f *FileSharing) Uploads() []*Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Upload, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.uploads[id])
	}
	return out
}

// CancelUpload cancels an upload by id.
func (f *FileSharing) CancelUpload(id string) error {
	u, ok := f.Upload(id)
	if !ok {
		return &store.NotFoundError{Kind: "upload", ID: id}
	}
	u.Cancel()
	return nil
}
