package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jarvis-assistant/backend/internal/builder"
	"github.com/jarvis-assistant/backend/internal/entity"
	"github.com/jarvis-assistant/backend/internal/usecase/knowledge"
	"go.uber.org/zap"
)

func main() {
	// Flags are registered before BuildIngest so config.LoadConfig parses
	// them together with its own -env flag.
	recursive := flag.Bool("recursive", false, "Recursively ingest directories")
	extensions := flag.String("extensions", ".txt,.md", "Comma-separated file extensions to include")

	uc, _, logger, err := builder.BuildIngest()
	if err != nil {
		log.Fatal("Failed to build ingestion pipeline:", err)
	}
	defer logger.Sync()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file-or-directory>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx := context.Background()

	info, err := os.Stat(path)
	if err != nil {
		logger.Fatal("path not found", zap.String("path", path), zap.Error(err))
	}

	if info.IsDir() {
		summary := ingestDirectory(ctx, uc, logger, path, parseExtensions(*extensions), *recursive)
		logger.Info("Directory ingestion complete",
			zap.Int("total_files", summary.total),
			zap.Int("successful", summary.successful),
			zap.Int("failed", summary.failed),
		)
		if summary.failed > 0 {
			os.Exit(1)
		}
		return
	}

	resp, err := ingestFile(ctx, uc, path, nil)
	if err != nil {
		logger.Fatal("ingestion failed", zap.String("path", path), zap.Error(err))
	}
	logger.Info("Ingested file",
		zap.String("doc_id", resp.DocID),
		zap.Int("chunks_created", resp.ChunksCreated),
	)
}

type ingestSummary struct {
	total      int
	successful int
	failed     int
}

func ingestDirectory(
	ctx context.Context,
	uc *knowledge.Usecase,
	logger *zap.Logger,
	dir string,
	extensions map[string]bool,
	recursive bool,
) ingestSummary {
	var summary ingestSummary

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		summary.total++
		resp, err := ingestFile(ctx, uc, path, map[string]any{"source_directory": dir})
		if err != nil {
			summary.failed++
			logger.Error("failed to ingest file", zap.String("path", path), zap.Error(err))
			return nil
		}
		summary.successful++
		logger.Info("ingested file",
			zap.String("path", path),
			zap.String("doc_id", resp.DocID),
			zap.Int("chunks_created", resp.ChunksCreated),
		)
		return nil
	})
	if err != nil {
		logger.Error("directory walk failed", zap.String("path", dir), zap.Error(err))
	}

	return summary
}

func ingestFile(
	ctx context.Context,
	uc *knowledge.Usecase,
	path string,
	metadata map[string]any,
) (*entity.KnowledgeAddResponse, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	fileMetadata := map[string]any{
		"source_file": filepath.Base(path),
		"file_type":   filepath.Ext(path),
	}
	for k, v := range metadata {
		fileMetadata[k] = v
	}

	return uc.AddDocument(ctx, &entity.KnowledgeAddRequest{
		DocID:    docIDFromPath(path),
		Content:  string(content),
		Metadata: fileMetadata,
		Chunk:    true,
	})
}

// docIDFromPath derives a stable document id from the file name:
// "Team Handbook.md" becomes "team_handbook".
func docIDFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(strings.ReplaceAll(stem, " ", "_"))
}

func parseExtensions(raw string) map[string]bool {
	extensions := make(map[string]bool)
	for _, ext := range strings.Split(raw, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}
	return extensions
}
