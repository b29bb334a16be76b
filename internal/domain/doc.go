// Package domain contains the core domain entities and value objects for speechprep.
//
// This package represents the innermost layer of the module. It has no
// dependencies on infrastructure concerns (file system, audio codecs, logging)
// and contains only the value records that flow through the pipeline.
//
// # Entities
//
//   - [Audio]: A raw audio clip (sample array + sampling rate)
//   - [Example]: One transcription example, optionally carrying derived features and labels
//   - [Batch]: A padded, fixed-size group of examples ready for a training step
//
// # Design Principles
//
// Domain entities are:
//   - Immutable value records; preprocessing produces new records
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
