package ingest

import (
	"fmt"

	"usem/internal/adapter/fs"
	"usem/internal/domain"
)

// ImportReport summarizes one import run.
type ImportReport struct {
	Files   int
	Loaded  int
	Skipped []SkippedRecord
}

// Importer loads dictionary files from a directory tree.
type Importer struct {
	walker *fs.Walker
}

// NewImporter creates an Importer matching files with the given globs.
func NewImporter(includes, excludes []string) *Importer {
	return &Importer{walker: fs.NewWalker(includes, excludes)}
}

// ImportDir loads and transforms every matching file under root. progress,
// if non-nil, is called after each file with (processed, total). Unreadable
// files abort the import; per-record validation failures only skip records.
func (im *Importer) ImportDir(root string, progress func(processed, total int)) ([]domain.DictionaryEntry, ImportReport, error) {
	files, err := im.walker.Walk(root)
	if err != nil {
		return nil, ImportReport{}, fmt.Errorf("walk %s: %w", root, err)
	}

	var entries []domain.DictionaryEntry
	report := ImportReport{Files: len(files)}

	for i, path := range files {
		records, err := LoadFile(path)
		if err != nil {
			return nil, report, fmt.Errorf("load %s: %w", path, err)
		}
		fileEntries, skipped := Transform(records)
		entries = append(entries, fileEntries...)
		report.Skipped = append(report.Skipped, skipped...)
		if progress != nil {
			progress(i+1, len(files))
		}
	}

	report.Loaded = len(entries)
	return entries, report, nil
}
