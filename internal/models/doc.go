// Package models defines domain entities and persistence interfaces for the Mylar to Kapowarr migration tool.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [SourceEntry] : A comic series as tracked by Mylar, normalized from its loosely-typed API
//   - [SourceIssue] : A single issue belonging to a Mylar series
//   - [TargetVolume] : A comic volume as tracked by Kapowarr
//   - [TargetIssue] : A single issue belonging to a Kapowarr volume
//   - [VolumeSpec] : The payload for creating a new Kapowarr volume
//   - [ImportEntry] : A file/issue pair submitted to Kapowarr's library import
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [MigrationRun] : One migration pass with its final counters
//   - [CachedEntry] : A source entry snapshot recorded during a run
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
