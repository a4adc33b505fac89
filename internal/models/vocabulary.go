// Package models defines data structures used throughout the lexiquiz application.
package models

import "strings"

// VocabularyItem is a word saved into a user's folder together with its dictionary data
type VocabularyItem struct {
	ID                 int64     `json:"id" db:"id"`
	FolderID           int64     `json:"folderId" db:"folder_id"`
	Word               string    `json:"word" db:"word"`
	PhoneticText       string    `json:"phoneticText" db:"phonetic_text"`
	AudioURL           string    `json:"audioUrl" db:"audio_url"`
	UserDefinedMeaning *string   `json:"userDefinedMeaning" db:"user_defined_meaning"`
	UserImageBase64    *string   `json:"userImageBase64" db:"user_image_base64"`
	Meanings           []Meaning `json:"meanings" db:"-"`
}

// Meaning groups the definitions of a word for one part of speech
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Synonyms     []string     `json:"synonyms"`
	Antonyms     []string     `json:"antonyms"`
	Definitions  []Definition `json:"definitions"`
}

// Definition is a single dictionary sense with an optional example
type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// DefinedMeaning returns the trimmed user-defined meaning, or "" when none is set
func (v *VocabularyItem) DefinedMeaning() string {
	if v.UserDefinedMeaning == nil {
		return ""
	}
	return strings.TrimSpace(*v.UserDefinedMeaning)
}

// HasMeaning reports whether the user supplied a non-blank meaning
func (v *VocabularyItem) HasMeaning() bool {
	return v.DefinedMeaning() != ""
}

// PartOfSpeech returns the part of speech of the first meaning, if any
func (v *VocabularyItem) PartOfSpeech() string {
	if len(v.Meanings) == 0 {
		return ""
	}
	return v.Meanings[0].PartOfSpeech
}

// ImageBase64 returns the user image or "" when none is set
func (v *VocabularyItem) ImageBase64() string {
	if v.UserImageBase64 == nil {
		return ""
	}
	return *v.UserImageBase64
}

// VocabularyDetail is the flashcard view of a vocabulary item
type VocabularyDetail struct {
	ID                 int64     `json:"id"`
	Word               string    `json:"word"`
	PhoneticText       string    `json:"phoneticText"`
	AudioURL           string    `json:"audioUrl"`
	UserDefinedMeaning *string   `json:"userDefinedMeaning"`
	UserImageBase64    *string   `json:"userImageBase64"`
	Meanings           []Meaning `json:"meanings"`
}

// NewVocabularyDetail converts an item into its flashcard view
func NewVocabularyDetail(v VocabularyItem) VocabularyDetail {
	meanings := v.Meanings
	if meanings == nil {
		meanings = []Meaning{}
	}
	return VocabularyDetail{
		ID:                 v.ID,
		Word:               v.Word,
		PhoneticText:       v.PhoneticText,
		AudioURL:           v.AudioURL,
		UserDefinedMeaning: v.UserDefinedMeaning,
		UserImageBase64:    v.UserImageBase64,
		Meanings:           meanings,
	}
}
