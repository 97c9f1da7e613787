package badger

import "fmt"

// Key prefixes for different data types
const (
	chunkEntryPrefix = "chkent"
)

// makeChunkEntryKey generates a key for an indexed chunk entry.
func makeChunkEntryKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", chunkEntryPrefix, id))
}
