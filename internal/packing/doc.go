// Package packing generates non-overlapping circle and sphere layouts.
//
// Responsibilities: normal radius sampling, uniform placement inside a
// bounding region, overlap predicates and the rejection-sampling loop that
// ties them together.
// Key types: Region, Particle, Group, Generator.
//
// A Generator owns its random source and is not safe for concurrent use.
// Parallel drivers create one Generator per worker, each with its own seed.
// Groups are immutable once returned and may be shared freely, for example
// as the exclusion group of a later run.
//
// No rendering or file I/O is allowed in this package.
package packing
