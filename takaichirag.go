// Package takaichirag collects published statements from Sanae Takaichi's
// official website and makes them queryable through retrieval-augmented
// question answering. It crawls a fixed set of site categories, persists
// raw page records as timestamped snapshots, indexes them as embedded text
// chunks in a local database, and answers natural-language questions with
// cited sources.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package takaichirag
