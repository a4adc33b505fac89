package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"lexiquiz/internal/config"
	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	"lexiquiz/internal/services"
	contextutils "lexiquiz/internal/utils"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// SentenceCommands returns commands that run the sentence validation pipeline offline
func SentenceCommands(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	sentenceCmd := &cobra.Command{
		Use:   "sentence",
		Short: "Sentence validation commands",
		Long: `Run the sentence validation pipeline without the HTTP server.

Available commands:
  check       - Validate one sentence against a keyword
  check-file  - Validate every "keyword<TAB>sentence" line of a file
  normalize   - Expand contractions in a text`,
	}

	sentenceCmd.AddCommand(checkSentenceCmd(cfg, logger))
	sentenceCmd.AddCommand(checkFileCmd(cfg, logger))
	sentenceCmd.AddCommand(normalizeCmd())

	return sentenceCmd
}

func newOfflineValidator(cfg *config.Config, logger *observability.Logger) (*services.SentenceValidator, error) {
	tagger, err := services.NewProseTagger()
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to load part-of-speech model")
	}
	completeness := services.NewCompletenessChecker(services.NewContractionNormalizer(), tagger)
	grammar := services.NewGrammarCheckClient(cfg.Grammar, logger)
	return services.NewSentenceValidator(completeness, grammar, nil, nil, logger), nil
}

func checkSentenceCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var word string

	cmd := &cobra.Command{
		Use:   "check [sentence]",
		Short: "Validate one sentence against a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := newOfflineValidator(cfg, logger)
			if err != nil {
				return err
			}
			result := validator.Validate(cmd.Context(), args[0], word)
			return emitCheck(newPrinter(cmd.OutOrStdout()), word, args[0], result)
		},
	}

	cmd.Flags().StringVar(&word, "word", "", "Keyword the sentence must contain")
	_ = cmd.MarkFlagRequired("word")

	return cmd
}

type sentenceLine struct {
	keyword  string
	sentence string
}

func checkFileCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var (
		file        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "check-file",
		Short: `Validate every "keyword<TAB>sentence" line of a file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return contextutils.WrapErrorf(err, "failed to open %s", file)
			}
			defer func() { _ = f.Close() }()

			lines, err := readSentenceLines(f)
			if err != nil {
				return err
			}

			validator, err := newOfflineValidator(cfg, logger)
			if err != nil {
				return err
			}

			results := make([]*models.SentenceCheckResult, len(lines))
			g, ctx := errgroup.WithContext(cmd.Context())
			if concurrency < 1 {
				concurrency = 1
			}
			g.SetLimit(concurrency)
			for i, line := range lines {
				g.Go(func() error {
					results[i] = validator.Validate(ctx, line.sentence, line.keyword)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			for i, line := range lines {
				if err := emitCheck(p, line.keyword, line.sentence, results[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Tab separated file of keyword and sentence pairs")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of sentences validated in parallel")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readSentenceLines skips blank lines and lines starting with #
func readSentenceLines(r io.Reader) ([]sentenceLine, error) {
	var lines []sentenceLine
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		keyword, sentence, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "line %d: expected keyword<TAB>sentence", lineNo)
		}
		lines = append(lines, sentenceLine{keyword: strings.TrimSpace(keyword), sentence: strings.TrimSpace(sentence)})
	}
	if err := scanner.Err(); err != nil {
		return nil, contextutils.WrapError(err, "failed to read sentences")
	}
	return lines, nil
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [text]",
		Short: "Expand contractions in a text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized := services.NewContractionNormalizer().Normalize(args[0])
			return newPrinter(cmd.OutOrStdout()).emit(normalized, map[string]string{
				"input":      args[0],
				"normalized": normalized,
			})
		},
	}
}

func emitCheck(p *printer, keyword, sentence string, result *models.SentenceCheckResult) error {
	mark := "FAIL"
	if result.IsCorrect {
		mark = "OK"
	}
	return p.emit(
		fmt.Sprintf("[%s] %s (%s): %s", mark, sentence, keyword, result.Feedback),
		map[string]interface{}{
			"keyword":   keyword,
			"sentence":  sentence,
			"isCorrect": result.IsCorrect,
			"stage":     result.Stage,
			"feedback":  result.Feedback,
		},
	)
}
