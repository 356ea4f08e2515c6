package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hansbricks/metascope/internal/assembler"
	"github.com/hansbricks/metascope/internal/config"
	"github.com/hansbricks/metascope/internal/logger"
	"github.com/hansbricks/metascope/internal/metadata"
)

// Scanner walks files and directories and assembles one record per file.
// Processing is sequential: a file is fully extracted and assembled before
// the next begins, and records never share state.
type Scanner struct {
	cfg config.Config
	asm *assembler.Assembler
}

// New creates a scanner.
func New(cfg config.Config) *Scanner {
	return &Scanner{cfg: cfg, asm: assembler.New(cfg)}
}

// ProcessFile assembles the record for a single file.
func (s *Scanner) ProcessFile(filePath string) *metadata.Record {
	logger.Infof("Processing file: %s", filePath)
	return s.asm.Assemble(filePath)
}

// ProcessDirectory assembles records for every matching file in a directory.
// Entries are visited in name order so batch output is stable. Hidden entries
// are skipped unless configured otherwise, subdirectories only descend in
// recursive mode, and cancellation stops the walk while keeping records
// already produced.
func (s *Scanner) ProcessDirectory(ctx context.Context, dirPath string) ([]*metadata.Record, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	logger.Infof("Processing directory: %s", dirPath)
	var records []*metadata.Record

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		name := entry.Name()
		entryPath := filepath.Join(dirPath, name)

		if !s.cfg.IncludeHidden && strings.HasPrefix(name, ".") {
			logger.Debugf("Skipping hidden entry: %s", entryPath)
			continue
		}

		if entry.IsDir() {
			if !s.cfg.Recursive {
				continue
			}
			sub, err := s.ProcessDirectory(ctx, entryPath)
			records = append(records, sub...)
			if err != nil {
				return records, err
			}
			continue
		}

		if !s.matchesExtensions(name) {
			logger.Debugf("Skipping file with non-matching extension: %s", entryPath)
			continue
		}

		records = append(records, s.ProcessFile(entryPath))
	}
	return records, nil
}

func (s *Scanner) matchesExtensions(name string) bool {
	if len(s.cfg.Extensions) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range s.cfg.Extensions {
		suffix := strings.ToLower(ext)
		if !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
