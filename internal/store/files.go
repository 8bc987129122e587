package store

import (
	"strings"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

func fileID(f *models.File) string { return f.ID }

// File returns the file with the given id.
func (s *Store) File(id string) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.state.Files, id, fileID)
	if i < 0 {
		return nil, notFound(KindFile, id)
	}
	return s.state.Files[i], nil
}

// UploadFile records file metadata. Project defaults to the default project,
// version to 1 and url to "#".
func (s *Store) UploadFile(params CreateFileParams) (*models.File, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	var created *models.File
	err := s.mutate(func() (Change, error) {
		projID := params.ProjectID
		if projID == "" {
			projID = defaultProjectID
		}
		if indexOf(s.state.Projects, projID, projectID) < 0 {
			return Change{}, invalid("project_id", "references unknown project "+projID)
		}

		f := &models.File{
			ID:         s.nextID(KindFile),
			Name:       strings.TrimSpace(params.Name),
			Type:       params.Type,
			Size:       params.Size,
			UploaderID: params.UploaderID,
			UploadDate: params.UploadDate,
			ProjectID:  projID,
			Version:    params.Version,
			URL:        params.URL,
		}
		if f.Version == 0 {
			f.Version = 1
		}
		if f.URL == "" {
			f.URL = "#"
		}

		s.state.Files = appendOne(s.state.Files, f)
		created = f
		return Change{Kind: KindFile, Op: OpCreate, ID: f.ID}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteFile removes a file and returns the remaining collection.
func (s *Store) DeleteFile(id string) ([]*models.File, error) {
	var out []*models.File
	err := s.mutate(func() (Change, error) {
		i := indexOf(s.state.Files, id, fileID)
		if i < 0 {
			return Change{}, notFound(KindFile, id)
		}
		s.state.Files = removeAt(s.state.Files, i)
		out = s.state.Files
		return Change{Kind: KindFile, Op: OpDelete, ID: id}, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
