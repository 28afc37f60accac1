// Package repositories implements read access to the SQLite songs database.
//
// Key Implementations:
//   - [SongRepository] : Song iteration, sampling, counts and category listing
//   - [SchemaInspector] : Table and column introspection over sqlite_master and PRAGMA table_info
//
// Every query against the songs table is preceded by a [SchemaInspector.HasTable] check
// so a database without the expected schema is reported as [shared.ErrMissingSchema]
// instead of a driver error.
package repositories
