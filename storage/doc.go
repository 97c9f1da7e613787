// Package storage defines the persistence interfaces for the knowledge
// base: a vector index over document chunks and a source of document
// records and bodies. Concrete implementations live in subpackages
// (currently BadgerDB).
package storage
