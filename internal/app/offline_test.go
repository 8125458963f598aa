package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/logger"
)

func TestImportThenExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.Config{
		DataFile:  filepath.Join(dir, "data", "data.json"),
		PublicDir: filepath.Join(dir, "public"),
	}

	content := filepath.Join(dir, "content.md")
	if err := os.WriteFile(content, []byte("---\nlogoUrl: /logo.svg\n---\n# Skills\n- Go\n- SQL\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	resume := filepath.Join(dir, "cv.pdf")
	if err := os.WriteFile(resume, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Import(ctx, cfg, logger.NewNop(), ImportFiles{Content: content, Resume: resume}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.PublicDir, "resume.pdf")); err != nil {
		t.Errorf("resume not written: %v", err)
	}

	out, err := Export(ctx, cfg)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	for _, want := range []string{"logoUrl: /logo.svg", "- Go\n- SQL\n", "resumeUrl: /resume.pdf"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}

func TestImportRejectsNonPDFResume(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DataFile: filepath.Join(dir, "data.json"), PublicDir: dir}
	resume := filepath.Join(dir, "cv.txt")
	if err := os.WriteFile(resume, []byte("plain"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Import(context.Background(), cfg, logger.NewNop(), ImportFiles{Resume: resume})
	if err == nil || err.Error() != "Full resume must be a PDF file." {
		t.Fatalf("Import() error = %v", err)
	}
	if _, err := os.Stat(cfg.DataFile); !os.IsNotExist(err) {
		t.Error("data file should not be created")
	}
}

func TestImportNothing(t *testing.T) {
	cfg := &config.Config{DataFile: filepath.Join(t.TempDir(), "data.json")}
	err := Import(context.Background(), cfg, logger.NewNop(), ImportFiles{})
	if err == nil || err.Error() != "No changes were detected. Please select a file to upload." {
		t.Fatalf("Import() error = %v", err)
	}
}
