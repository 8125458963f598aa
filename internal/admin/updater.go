package admin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/importer"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/utils"
)

const (
	MsgNoChanges      = "No changes were detected. Please select a file to upload."
	MsgResumeNotPDF   = "Full resume must be a PDF file."
	MsgBriefNotPDF    = "Brief resume must be a PDF file."
	MsgBadContentFile = "Content file must be a .md or .txt file."
	MsgUpdated        = "Content updated successfully! Changes will be live momentarily."

	ResumeFile      = "resume.pdf"
	BriefResumeFile = "brief-resume.pdf"
	ResumeURL       = "/" + ResumeFile
	BriefResumeURL  = "/" + BriefResumeFile
)

// RejectError is an upload refused before any work was done.
type RejectError struct {
	Message string
}

func (e *RejectError) Error() string { return e.Message }

// ParseError is a content document that could not be parsed. Its text is
// the parser's own message, which already names the section and item.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Store is the persistent document store.
type Store interface {
	Load(ctx context.Context) (*domain.PortfolioData, error)
	Save(ctx context.Context, data *domain.PortfolioData) error
}

// Invalidator drops derived views after a successful update.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Updater applies uploads to the stored document.
type Updater struct {
	store     Store
	views     Invalidator
	publicDir string
	logger    logger.Logger
}

func NewUpdater(store Store, views Invalidator, publicDir string, log logger.Logger) *Updater {
	return &Updater{
		store:     store,
		views:     views,
		publicDir: publicDir,
		logger:    log,
	}
}

// Update validates every part, stages the resumes, saves the merged
// document and only then publishes the resumes. Nothing becomes visible
// unless every part is valid and the document is saved.
func (u *Updater) Update(ctx context.Context, up Upload) error {
	if err := validateUpload(up); err != nil {
		return err
	}

	current, err := u.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load current content: %w", err)
	}

	next := current.Clone()
	if up.Content != nil {
		next, err = importer.Import(up.Content.Data, current)
		if err != nil {
			return &ParseError{Err: err}
		}
	}
	if up.Resume != nil {
		next.AboutMe.ResumeURL = ResumeURL
	}
	if up.BriefResume != nil {
		next.AboutMe.BriefResumeURL = BriefResumeURL
	}

	var staged []*utils.StagedFile
	defer func() {
		for _, f := range staged {
			f.Discard()
		}
	}()
	for _, pdf := range []struct {
		part *Part
		name string
	}{
		{up.Resume, ResumeFile},
		{up.BriefResume, BriefResumeFile},
	} {
		if pdf.part == nil {
			continue
		}
		f, err := u.stagePublic(pdf.name, pdf.part.Data)
		if err != nil {
			return err
		}
		staged = append(staged, f)
	}

	if err := u.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	for _, f := range staged {
		if err := f.Commit(); err != nil {
			return fmt.Errorf("content saved but resume not published: %w", err)
		}
	}

	u.logger.Info("content updated",
		logger.Bool("document", up.Content != nil),
		logger.Bool("resume", up.Resume != nil),
		logger.Bool("brief_resume", up.BriefResume != nil),
		logger.Int("portfolio_items", len(next.PortfolioItems)))

	if u.views != nil {
		if err := u.views.Invalidate(ctx); err != nil {
			u.logger.Warn("content saved but view cache flush failed", logger.Error(err))
		}
	}
	return nil
}

func validateUpload(up Upload) error {
	if up.Empty() {
		return &RejectError{Message: MsgNoChanges}
	}
	if up.Resume != nil && !up.Resume.isPDF() {
		return &RejectError{Message: MsgResumeNotPDF}
	}
	if up.BriefResume != nil && !up.BriefResume.isPDF() {
		return &RejectError{Message: MsgBriefNotPDF}
	}
	if up.Content != nil && !up.Content.isContentDocument() {
		return &RejectError{Message: MsgBadContentFile}
	}
	return nil
}

func (u *Updater) stagePublic(name string, data []byte) (*utils.StagedFile, error) {
	f, err := utils.StageFile(filepath.Join(u.publicDir, name), data, 0o644)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	return f, nil
}

// UpdateResult maps an Update error to the envelope shown to the owner.
func UpdateResult(err error) domain.Result {
	if err == nil {
		return domain.Ok(MsgUpdated)
	}
	var reject *RejectError
	if errors.As(err, &reject) {
		return domain.Fail(reject.Message)
	}
	return domain.Fail("Failed to update content: " + err.Error())
}
