package app

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/folio/internal/admin"
	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/importer"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/store/jsonfile"
)

// ImportFiles names local files to apply like an admin upload. Empty
// paths are skipped.
type ImportFiles struct {
	Content     string
	Resume      string
	BriefResume string
}

// Import applies local files to the data file without a running server.
// A running server picks the change up through its data file watcher.
func Import(ctx context.Context, cfg *config.Config, log logger.Logger, files ImportFiles) error {
	var up admin.Upload
	for _, f := range []struct {
		path string
		dst  **admin.Part
	}{
		{files.Content, &up.Content},
		{files.Resume, &up.Resume},
		{files.BriefResume, &up.BriefResume},
	} {
		if f.path == "" {
			continue
		}
		part, err := localPart(f.path)
		if err != nil {
			return err
		}
		*f.dst = part
	}

	updater := admin.NewUpdater(jsonfile.New(cfg.DataFile), nil, cfg.PublicDir, log)
	if err := updater.Update(ctx, up); err != nil {
		return errors.New(admin.UpdateResult(err).Message)
	}
	return nil
}

// Export renders the stored document as an importable Markdown file.
func Export(ctx context.Context, cfg *config.Config) ([]byte, error) {
	data, err := jsonfile.New(cfg.DataFile).Load(ctx)
	if err != nil {
		return nil, err
	}
	return importer.Export(data)
}

func localPart(path string) (*admin.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &admin.Part{
		Filename:  filepath.Base(path),
		MediaType: admin.MediaType(mime.TypeByExtension(filepath.Ext(path))),
		Data:      data,
	}, nil
}
