// Package models defines the song records read from the church songs database and the documents hymnx writes.
//
// The package contains two categories of types:
//
// 1. Source records, read-only views of rows and files
//   - [Song] : A row from the songs table with nullable columns
//   - [ReferenceSong] : A song extracted from the mobile app bundle
//   - [Column] : Schema information from PRAGMA table_info
//
// 2. Output documents, built once and never mutated
//   - [ExportedSong] : The trimmed representation written to the export file
//   - [ExportSummary] : Counts and sample titles for an export run
//   - [NumberUpdate] : A song whose number differs from the reference catalogue
package models
