package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/models"
	"github.com/good-yellow-bee/collabhub/internal/query"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/internal/views"
)

// FileListResponse is the file grid.
type FileListResponse struct {
	Query views.FileQuery `json:"query"`
	Files []*models.File  `json:"files"`
}

// listFiles lists the file grid. ?search= and ?type= override the session
// filter for this request only; ?where= narrows the result further.
func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	f := s.shell.Files
	q := f.Query()
	params := r.URL.Query()
	if params.Has("search") {
		q.Search = params.Get("search")
	}
	if params.Has("type") {
		q.Type = params.Get("type")
	}

	where, apiErr := whereClause(r, s.fileQuery)
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}
	files, apiErr := applyWhere(f.Matching(q), where, query.FileRecord)
	if apiErr != nil {
		JSONError(w, apiErr)
		return
	}
	OK(w, FileListResponse{Query: q, Files: files})
}

func (s *Server) fileTypes(w http.ResponseWriter, r *http.Request) {
	OK(w, s.shell.Files.Types())
}

// createFile records file metadata directly, without the simulated upload.
// Uploader and date default to the current user and today.
func (s *Server) createFile(w http.ResponseWriter, r *http.Request) {
	var params store.CreateFileParams
	if err := decodeJSON(w, r, &params); err != nil {
		JSONError(w, err)
		return
	}
	if params.UploaderID == "" {
		params.UploaderID = s.shell.Store().CurrentUser().ID
	}
	if params.UploadDate == "" {
		params.UploadDate = models.FormatDate(s.config.Now())
	}
	if params.Type == "" {
		params.Type = coordinator.FileInfo{Name: params.Name}.Extension()
	}

	f, err := s.shell.Store().UploadFile(params)
	if err != nil {
		WriteError(w, err)
		return
	}
	Created(w, f)
}

// previewFile opens the preview for a file.
func (s *Server) previewFile(w http.ResponseWriter, r *http.Request) {
	f := s.shell.Files
	if err := f.Select(chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	file, ok := f.Selected()
	if !ok {
		JSONError(w, ErrNotFound)
		return
	}
	OK(w, file)
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.shell.Files.Delete(chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	NoContent(w)
}

// startUpload begins a simulated upload from either a multipart form with a
// "file" part or a JSON FileInfo. The file content is not kept.
func (s *Server) startUpload(w http.ResponseWriter, r *http.Request) {
	var info coordinator.FileInfo
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				JSONError(w, NewValidationError("size", "file exceeds the upload limit"))
				return
			}
			JSONError(w, NewBadRequest("multipart form needs a file part: "+err.Error()))
			return
		}
		file.Close()
		info = coordinator.FileInfo{
			Name:      header.Filename,
			Size:      header.Size,
			ProjectID: r.FormValue("project_id"),
		}
	} else if err := decodeJSON(w, r, &info); err != nil {
		JSONError(w, err)
		return
	}

	u, err := s.shell.Files.StartUpload(s.uploadCtx, info)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/files/uploads/"+u.ID)
	Accepted(w, u.Status())
}

func (s *Server) listUploads(w http.ResponseWriter, r *http.Request) {
	uploads := s.shell.Files.Uploads()
	resp := make([]coordinator.UploadStatus, len(uploads))
	for i, u := range uploads {
		resp[i] = u.Status()
	}
	OK(w, resp)
}

func (s *Server) getUpload(w http.ResponseWriter, r *http.Request) {
	u, ok := s.shell.Files.Upload(chi.URLParam(r, "uploadID"))
	if !ok {
		JSONError(w, NewNotFound("upload not found"))
		return
	}
	OK(w, u.Status())
}

func (s *Server) cancelUploadByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uploadID")
	if err := s.shell.Files.CancelUpload(id); err != nil {
		WriteError(w, err)
		return
	}
	s.getUpload(w, r)
}
