package services

import (
	"context"
	"database/sql"
	"errors"

	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

const vocabularyColumns = `id, folder_id, word, phonetic_text, audio_url, user_defined_meaning, user_image_base64`

type meaningRow struct {
	ID           int64          `db:"id"`
	VocabularyID int64          `db:"vocabulary_id"`
	PartOfSpeech string         `db:"part_of_speech"`
	Synonyms     pq.StringArray `db:"synonyms"`
	Antonyms     pq.StringArray `db:"antonyms"`
}

type definitionRow struct {
	MeaningID  int64  `db:"meaning_id"`
	Definition string `db:"definition"`
	Example    string `db:"example"`
}

// VocabularyRepositoryImpl reads vocabulary items from Postgres
type VocabularyRepositoryImpl struct {
	db     *sqlx.DB
	logger *observability.Logger
}

// NewVocabularyRepository creates a new vocabulary repository
func NewVocabularyRepository(db *sqlx.DB, logger *observability.Logger) *VocabularyRepositoryImpl {
	return &VocabularyRepositoryImpl{db: db, logger: logger}
}

// ListByFolder returns every item in the folder ordered by id, with meanings attached
func (r *VocabularyRepositoryImpl) ListByFolder(ctx context.Context, folderID int64) (result []models.VocabularyItem, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "list_vocabulary_by_folder",
		observability.AttributeFolderID(folderID),
	)
	defer observability.FinishSpan(span, &err)

	items := []models.VocabularyItem{}
	query := `SELECT ` + vocabularyColumns + ` FROM vocabularies WHERE folder_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &items, query, folderID); err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to query vocabulary by folder")
	}

	if err := r.attachMeanings(ctx, items); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("vocabulary.count", len(items)))
	return items, nil
}

// ListByIDs returns the existing items among ids, ordered by id
func (r *VocabularyRepositoryImpl) ListByIDs(ctx context.Context, ids []int64) (result []models.VocabularyItem, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "list_vocabulary_by_ids",
		attribute.Int("vocabulary.requested", len(ids)),
	)
	defer observability.FinishSpan(span, &err)

	items := []models.VocabularyItem{}
	if len(ids) == 0 {
		return items, nil
	}

	query := `SELECT ` + vocabularyColumns + ` FROM vocabularies WHERE id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to query vocabulary by ids")
	}

	if err := r.attachMeanings(ctx, items); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("vocabulary.count", len(items)))
	return items, nil
}

// FindByID returns the item or nil when it does not exist
func (r *VocabularyRepositoryImpl) FindByID(ctx context.Context, id int64) (result *models.VocabularyItem, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "find_vocabulary",
		attribute.Int64("vocabulary.id", id),
	)
	defer observability.FinishSpan(span, &err)

	var item models.VocabularyItem
	query := `SELECT ` + vocabularyColumns + ` FROM vocabularies WHERE id = $1`
	err = r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to query vocabulary")
	}

	items := []models.VocabularyItem{item}
	if err := r.attachMeanings(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachMeanings loads meanings and definitions for items in two queries
func (r *VocabularyRepositoryImpl) attachMeanings(ctx context.Context, items []models.VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	var meanings []meaningRow
	if err := r.db.SelectContext(ctx, &meanings, `
		SELECT id, vocabulary_id, part_of_speech, synonyms, antonyms
		FROM meanings
		WHERE vocabulary_id = ANY($1)
		ORDER BY vocabulary_id, position, id`, pq.Array(ids)); err != nil {
		return contextutils.WrapDatabaseError(err, "failed to query meanings")
	}
	if len(meanings) == 0 {
		return nil
	}

	meaningIDs := make([]int64, 0, len(meanings))
	for _, m := range meanings {
		meaningIDs = append(meaningIDs, m.ID)
	}

	var definitions []definitionRow
	if err := r.db.SelectContext(ctx, &definitions, `
		SELECT meaning_id, definition, example
		FROM definitions
		WHERE meaning_id = ANY($1)
		ORDER BY meaning_id, position, id`, pq.Array(meaningIDs)); err != nil {
		return contextutils.WrapDatabaseError(err, "failed to query definitions")
	}

	definitionsByMeaning := make(map[int64][]models.Definition, len(meanings))
	for _, d := range definitions {
		definitionsByMeaning[d.MeaningID] = append(definitionsByMeaning[d.MeaningID], models.Definition{
			Definition: d.Definition,
			Example:    d.Example,
		})
	}

	meaningsByVocabulary := make(map[int64][]models.Meaning, len(items))
	for _, m := range meanings {
		defs := definitionsByMeaning[m.ID]
		if defs == nil {
			defs = []models.Definition{}
		}
		meaningsByVocabulary[m.VocabularyID] = append(meaningsByVocabulary[m.VocabularyID], models.Meaning{
			PartOfSpeech: m.PartOfSpeech,
			Synonyms:     nonNilStrings(m.Synonyms),
			Antonyms:     nonNilStrings(m.Antonyms),
			Definitions:  defs,
		})
	}

	for i := range items {
		items[i].Meanings = meaningsByVocabulary[items[i].ID]
	}
	return nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
