// Package docsource implements storage.DocumentSource over a directory
// tree: per-document YAML metadata records in an index directory, and
// markdown bodies anywhere under a docs directory. An optional mapping
// file pins document IDs to body paths; unmapped documents are resolved
// by filename search.
package docsource
