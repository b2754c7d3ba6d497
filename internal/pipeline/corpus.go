package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spacebot-ai/spacebot/pkg/models"
)

// ErrSourceNotFound indicates the corpus path does not exist.
var ErrSourceNotFound = errors.New("corpus source not found")

// ErrEmptyCorpus indicates the corpus path held no readable documents.
var ErrEmptyCorpus = errors.New("corpus contains no documents")

// corpusExtensions are the file types loaded from a corpus directory.
var corpusExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// LoadDocuments reads the corpus at path into Documents. A directory
// yields one Document per .txt/.md file in lexical order, each with
// PageIndex set to its ordinal; a single file yields one Document.
func LoadDocuments(path string) ([]models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat corpus: %w", err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read corpus dir: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if corpusExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	docs := make([]models.Document, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w", file, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		docs = append(docs, models.Document{
			ID:         uuid.New().String(),
			SourcePath: file,
			PageIndex:  len(docs),
			Text:       string(data),
		})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, path)
	}
	return docs, nil
}
