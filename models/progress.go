package models

import "strings"

// ProgressKey identifies a language/difficulty track, rendered as
// "languageId_difficultyId".
type ProgressKey string

// NewProgressKey builds the key for a language/difficulty pair.
func NewProgressKey(languageID, difficultyID string) ProgressKey {
	return ProgressKey(languageID + "_" + difficultyID)
}

// Split returns the language and difficulty parts of the key. The language
// id is everything before the last underscore.
func (k ProgressKey) Split() (languageID, difficultyID string) {
	s := string(k)
	i := strings.LastIndex(s, "_")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// ProgressEntry is the best level and cumulative score of a user on one
// track. Neither value ever decreases.
type ProgressEntry struct {
	UserID       string `json:"userId"`
	LanguageID   string `json:"languageId"`
	DifficultyID string `json:"difficultyId"`
	Level        int64  `json:"level"`
	Score        int64  `json:"score"`
}

// Key returns the track key of the entry.
func (e ProgressEntry) Key() ProgressKey {
	return NewProgressKey(e.LanguageID, e.DifficultyID)
}

// Merge folds an attempt into the entry: the level is the max of both and
// the scores are summed.
func (e ProgressEntry) Merge(level, score int64) ProgressEntry {
	e.Level = max(e.Level, level)
	e.Score += score
	return e
}

// Progress is the level/score pair of one track.
type Progress struct {
	Level int64 `json:"level"`
	Score int64 `json:"score"`
}

// ProgressMap is a user's progress keyed by track.
type ProgressMap map[ProgressKey]Progress

// Attempt is one quiz attempt reported by the client.
type Attempt struct {
	LanguageID   string `json:"languageId"`
	DifficultyID string `json:"difficultyId"`
	Level        int64  `json:"level"`
	Score        int64  `json:"score"`
}

// AttemptResult is what a user sees after a paid quiz attempt: the
// remaining balance and the updated progress for every track.
type AttemptResult struct {
	Balance  Balance     `json:"balance"`
	Progress ProgressMap `json:"progress"`
}
