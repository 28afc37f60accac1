// Package tasks implements the song catalogue operations behind each hymnx command.
//
// # Core Operations
//
//  1. [ExportEngine.Export] : English song export
//     - Opens the database read-only and checks the songs schema
//     - Classifies every row with [shared.IsEnglishTitle]
//     - Writes the trimmed matches, overwriting the output file
//     - Optionally writes an [models.ExportSummary]
//
//  2. [ExtractReference] : Reference catalogue extraction
//     - Scans a minified JavaScript bundle for song object literals
//     - Recovers title, lyrics, category and number
//
//  3. [CompareNumbers] : Song number reconciliation
//     - Matches exported songs to reference songs by folded title
//     - Reports songs whose numbers differ, rendered as SQL by the formatter
//
// [FilterEnglish] and [Summarize] work on in-memory songs so the classification can be
// exercised without a database or filesystem.
package tasks
