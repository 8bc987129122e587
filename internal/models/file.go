package models

// File is an uploaded document. Re-uploading a file does not bump Version;
// files are replaced flat.
type File struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"` // extension without dot
	Size       string `json:"size" yaml:"size"` // formatted, e.g. "2.4 MB"
	UploaderID string `json:"uploader_id" yaml:"uploader_id"`
	UploadDate string `json:"upload_date" yaml:"upload_date"`
	ProjectID  string `json:"project_id" yaml:"project_id"`
	Version    int    `json:"version" yaml:"version"`
	URL        string `json:"url" yaml:"url"`
}

// Clone returns a copy of the file.
func (f *File) Clone() *File {
	c := *f
	return &c
}

// IsDocument reports whether the file type has a document preview.
func (f *File) IsDocument() bool {
	switch f.Type {
	case "docx", "xlsx", "pptx", "pdf", "fig":
		return true
	}
	return false
}
