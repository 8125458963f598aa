package admin

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	mediaPDF      = "application/pdf"
	mediaMarkdown = "text/markdown"
	mediaText     = "text/plain"
)

// Part is one uploaded file.
type Part struct {
	Filename  string
	MediaType string // without parameters
	Data      []byte
}

// Upload is the set of optional files of one content update.
type Upload struct {
	Content     *Part
	Resume      *Part
	BriefResume *Part
}

func (u Upload) Empty() bool {
	return u.Content == nil && u.Resume == nil && u.BriefResume == nil
}

// ReadPart loads a multipart file into memory. The declared Content-Type
// is kept as sent; unparsable values become empty.
func ReadPart(f multipart.File, h *multipart.FileHeader) (*Part, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", h.Filename, err)
	}
	return &Part{
		Filename:  h.Filename,
		MediaType: MediaType(h.Header.Get("Content-Type")),
		Data:      data,
	}, nil
}

// MediaType strips parameters and lowercases a Content-Type value.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

func (p *Part) isPDF() bool {
	return p.MediaType == mediaPDF
}

func (p *Part) isContentDocument() bool {
	if p.MediaType == mediaMarkdown || p.MediaType == mediaText {
		return true
	}
	ext := strings.ToLower(filepath.Ext(p.Filename))
	return ext == ".md" || ext == ".txt"
}
