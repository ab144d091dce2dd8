// Package settings persists the last alarm request so the next start can
// pre-fill it.
//
// Two backends implement Repository: FileRepository keeps a JSON document on
// an afero filesystem and SQLiteRepository keeps the same document in a
// single-row key-value table.
package settings
