package services

import (
	"regexp"
	"strings"
)

type contraction struct {
	pattern     *regexp.Regexp
	replacement string
}

// contractionTable lists the fixed expansions. Entries never overlap at word
// boundaries, so the order only matters for readability.
var contractionTable = [][2]string{
	{"i'm", "i am"},
	{"you're", "you are"},
	{"he's", "he is"},
	{"she's", "she is"},
	{"it's", "it is"},
	{"we're", "we are"},
	{"they're", "they are"},
	{"that's", "that is"},
	{"what's", "what is"},
	{"i've", "i have"},
	{"you've", "you have"},
	{"we've", "we have"},
	{"they've", "they have"},
	{"i'd", "i would"},
	{"you'd", "you would"},
	{"he'd", "he would"},
	{"she'd", "she would"},
	{"we'd", "we would"},
	{"they'd", "they would"},
	{"i'll", "i will"},
	{"you'll", "you will"},
	{"he'll", "he will"},
	{"she'll", "she will"},
	{"we'll", "we will"},
	{"they'll", "they will"},
	{"isn't", "is not"},
	{"aren't", "are not"},
	{"wasn't", "was not"},
	{"weren't", "were not"},
	{"haven't", "have not"},
	{"hasn't", "has not"},
	{"hadn't", "had not"},
	{"won't", "will not"},
	{"wouldn't", "would not"},
	{"don't", "do not"},
	{"doesn't", "does not"},
	{"didn't", "did not"},
	{"can't", "cannot"},
	{"couldn't", "could not"},
	{"shouldn't", "should not"},
	{"mightn't", "might not"},
	{"mustn't", "must not"},
}

var (
	possessivePattern = regexp.MustCompile(`(?i)\b(\w+)'s\b`)

	// Subjects whose 's is already covered by the table
	possessiveExceptions = map[string]bool{"it": true, "he": true, "she": true, "that": true, "what": true}

	apostropheFolder = strings.NewReplacer("’", "'", "‘", "'")
)

// ContractionNormalizer expands English contractions so the tagger sees the verb.
// It is immutable after construction and safe for concurrent use.
type ContractionNormalizer struct {
	table []contraction
}

// NewContractionNormalizer compiles the contraction table
func NewContractionNormalizer() *ContractionNormalizer {
	table := make([]contraction, 0, len(contractionTable))
	for _, entry := range contractionTable {
		table = append(table, contraction{
			pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(entry[0]) + `\b`),
			replacement: entry[1],
		})
	}
	return &ContractionNormalizer{table: table}
}

// Normalize expands every known contraction, then rewrites the remaining
// "<word>'s" forms as "<word> is".
func (n *ContractionNormalizer) Normalize(text string) string {
	result := apostropheFolder.Replace(text)

	for _, c := range n.table {
		result = c.pattern.ReplaceAllLiteralString(result, c.replacement)
	}

	return possessivePattern.ReplaceAllStringFunc(result, func(match string) string {
		word := possessivePattern.FindStringSubmatch(match)[1]
		if possessiveExceptions[strings.ToLower(word)] {
			return match
		}
		return word + " is"
	})
}
