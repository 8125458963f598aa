package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/folio/internal/app"
	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/utils"
	"github.com/MrSnakeDoc/folio/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Portfolio backend: content store, admin uploads and contact relay",
	Long: `folio serves a personal portfolio from a single JSON document.
Content is edited by uploading a Markdown file with YAML frontmatter and
# Skills, # Testimonials and # PortfolioItems sections.

Configuration is read from the environment (and a .env file if present).`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var importFlags app.ImportFiles

var importCmd = &cobra.Command{
	Use:   "import [content.md]",
	Short: "Apply a content document and resumes to the data file",
	Long: `import merges a Markdown content document into the data file, exactly
like an admin upload. Sections present in the document replace the stored
collections; absent ones are kept. Resumes must be PDF files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			importFlags.Content = args[0]
		}
		cfg := config.Load()
		log := logger.New(cfg.LogLevel, cfg.PrettyLog)
		defer func() { _ = log.Sync() }()

		if err := app.Import(cmd.Context(), cfg, log, importFlags); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Content updated:", cfg.DataFile)
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored content as an importable Markdown document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := app.Export(cmd.Context(), config.Load())
		if err != nil {
			return err
		}
		if exportOut == "" || exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		return utils.WriteFileAtomic(exportOut, out, 0o644)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
	},
}

func init() {
	importCmd.Flags().StringVar(&importFlags.Resume, "resume", "", "full resume PDF")
	importCmd.Flags().StringVar(&importFlags.BriefResume, "brief-resume", "", "brief resume PDF")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "-", "write to file instead of stdout")

	rootCmd.AddCommand(serveCmd, importCmd, exportCmd, versionCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("folio failed to start: %w", err)
	}
	return a.Run()
}
