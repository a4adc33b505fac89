package commands

import (
	"fmt"
	"strings"

	"lexiquiz/internal/config"
	"lexiquiz/internal/di"
	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/spf13/cobra"
)

// ReadingCommands returns commands for generating and inspecting cached reading content
func ReadingCommands(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	readingCmd := &cobra.Command{
		Use:   "reading",
		Short: "Reading content commands",
		Long: `Generate or inspect cached reading passages.

Available commands:
  generate  - Return cached content for a key, generating it on a miss
  show      - Print the cached content for a key without generating`,
	}

	readingCmd.AddCommand(generateReadingCmd(cfg, logger))
	readingCmd.AddCommand(showReadingCmd(cfg, logger))

	return readingCmd
}

type readingKey struct {
	folderID int64
	level    int
	topic    string
}

func (k *readingKey) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&k.folderID, "folder", 0, "Vocabulary folder id")
	cmd.Flags().IntVar(&k.level, "level", 1, "Difficulty level")
	cmd.Flags().StringVar(&k.topic, "topic", "", "Story topic")
	_ = cmd.MarkFlagRequired("folder")
	_ = cmd.MarkFlagRequired("topic")
}

func (k *readingKey) validate() error {
	if k.folderID <= 0 || k.level <= 0 || strings.TrimSpace(k.topic) == "" {
		return contextutils.WrapErrorf(contextutils.ErrInvalidInput, "folder and level must be positive and topic non-empty")
	}
	return nil
}

func generateReadingCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var key readingKey

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Return cached content for a key, generating it on a miss",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if err := key.validate(); err != nil {
				return err
			}

			container := di.NewServiceContainer(cfg, logger, nil)
			if err := container.Initialize(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = container.Shutdown(cmd.Context()) }()

			reading, err := container.GetReadingService()
			if err != nil {
				return err
			}
			content, err := reading.GetOrGenerate(cmd.Context(), key.folderID, key.level, key.topic)
			if err != nil {
				return err
			}
			return emitReading(newPrinter(cmd.OutOrStdout()), content)
		},
	}
	key.bind(cmd)

	return cmd
}

func showReadingCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var key readingKey

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cached content for a key without generating",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := key.validate(); err != nil {
				return err
			}

			container := di.NewServiceContainer(cfg, logger, nil)
			if err := container.Initialize(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = container.Shutdown(cmd.Context()) }()

			cache, err := container.GetContentCache()
			if err != nil {
				return err
			}
			cached, err := cache.Find(cmd.Context(), key.folderID, key.level, key.topic)
			if err != nil {
				return err
			}
			if cached == nil {
				return contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "no cached content for folder %d level %d topic %q", key.folderID, key.level, key.topic)
			}
			content, err := cached.Content()
			if err != nil {
				return contextutils.WrapErrorf(err, "cached content for topic %q is unreadable", key.topic)
			}
			return emitReading(newPrinter(cmd.OutOrStdout()), content)
		},
	}
	key.bind(cmd)

	return cmd
}

func emitReading(p *printer, content *models.ReadingContent) error {
	var b strings.Builder
	b.WriteString(content.Story)
	b.WriteString("\n")
	for i, q := range content.Questions {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, q.Question)
		for _, option := range q.Options {
			marker := " "
			if option == q.Answer {
				marker = "*"
			}
			fmt.Fprintf(&b, "   %s %s\n", marker, option)
		}
	}
	return p.emit(strings.TrimRight(b.String(), "\n"), content)
}
