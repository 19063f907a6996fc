package index

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
)

// fileDocument is the on-disk shape of the topic index.
type fileDocument struct {
	Version int     `json:"version"`
	Topics  []Topic `json:"topics"`
}

// FileIndex reads the topic index from a single JSON document maintained by
// the upstream indexer. Missing or corrupt files yield an empty snapshot:
// a retrieval call must never fail because the index is not there yet.
type FileIndex struct {
	path   string
	scorer Scorer
	log    zerolog.Logger
}

// NewFileIndex creates a file-backed index. The scorer supplies the
// query-relative relevance scores (their computation is upstream's concern).
func NewFileIndex(path string, scorer Scorer, log zerolog.Logger) *FileIndex {
	return &FileIndex{path: path, scorer: scorer, log: log}
}

// Load reads and parses the backing document.
func (f *FileIndex) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.Warn().Err(err).Str("path", f.path).Msg("topic index unreadable, treating as empty")
		}
		return NewSnapshot(nil, f.scorer), nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("topic index corrupt, treating as empty")
		return NewSnapshot(nil, f.scorer), nil
	}

	return NewSnapshot(doc.Topics, f.scorer), nil
}
