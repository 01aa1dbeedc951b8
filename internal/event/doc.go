// Package event holds the host event record consumed by the cosmic tagger.
//
// A Record mirrors what upstream reconstruction stores for one event: flat
// collections of objects, principal axes, clusters, hits and space points,
// plus flat association tables keyed by id. Nothing embeds back-references;
// Candidates resolves the tables into per-object views when the tagger needs
// them.
//
// Records are read from JSON or YAML files. A file may contain a single
// record, a list of records, or a stream of records (JSON values separated by
// whitespace, or YAML documents separated by "---").
package event
