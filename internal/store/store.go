// Package store holds the write-result shapes shared by every repository,
// independent of the storage driver behind them.
package store

import (
	"errors"
	"strings"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrEmptyUpdate = errors.New("update contains no fields")
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// InsertResult is returned by create endpoints. A nil InsertedID together
// with a Message signals that nothing was written.
type InsertResult struct {
	InsertedID *string `json:"insertedId"`
	Message    string  `json:"message,omitempty"`
}

// UpdateResult reports how many documents an update touched. Zero counts are
// a normal outcome, not an error.
type UpdateResult struct {
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

func Inserted(id string) InsertResult {
	return InsertResult{InsertedID: &id}
}

func NotInserted(message string) InsertResult {
	return InsertResult{InsertedID: nil, Message: message}
}

// LikePattern turns free text into a case-insensitive substring pattern for
// ILIKE, escaping the wildcard characters of the input.
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
