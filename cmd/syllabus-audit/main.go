package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/analyze"
	"github.com/syllabus-tools/syllabus-audit/internal/batch"
	"github.com/syllabus-tools/syllabus-audit/internal/common"
	"github.com/syllabus-tools/syllabus-audit/internal/detect"
	"github.com/syllabus-tools/syllabus-audit/internal/docext"
	"github.com/syllabus-tools/syllabus-audit/internal/export"
	"github.com/syllabus-tools/syllabus-audit/internal/llm"
	"github.com/syllabus-tools/syllabus-audit/internal/llm/openai"
	"github.com/syllabus-tools/syllabus-audit/internal/normalize"
	"github.com/syllabus-tools/syllabus-audit/internal/repository"
	"github.com/syllabus-tools/syllabus-audit/internal/rules"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// defaultColumns is the full-width output shape used when no template is given.
var defaultColumns = []string{
	constants.FieldFileName,
	constants.FieldCourse,
	constants.FieldFaculty,
	constants.FieldEmail,
	constants.FieldOfficeHours,
	constants.FieldOfficeLocation,
	constants.FieldClassLocation,
	constants.FieldModality,
	constants.FieldGradeComponents,
	constants.FieldWeeklySchedule,
	constants.FieldInPersonRatio,
	constants.FieldLearningOutcomes,
	constants.FieldTextbook,
	constants.FieldNotes,
}

func main() {
	var (
		dir          = flag.String("dir", "", "directory of syllabus files to audit (required)")
		templatePath = flag.String("template", "", "XLSX template whose header row defines the output columns")
		out          = flag.String("out", "", "output XLSX path (defaults to <dir>/../syllabus-audit.xlsx)")
		rulesPath    = flag.String("rules", "", "YAML rules file overriding the built-in detection tables")
		historyPath  = flag.String("history", "", "SQLite file recording run history (optional)")
		useLLM       = flag.Bool("llm", false, "infer fields the heuristics leave empty via OpenAI")
		workers      = flag.Int("workers", 0, "worker pool size (0 = number of CPUs)")
		verbose      = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		flag.Usage()
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "syllabus-audit.xlsx")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *historyPath != "" {
		cfg.History.Path = *historyPath
	}

	if err := run(ctx, cfg, logger, *dir, *templatePath, *out, *rulesPath, *useLLM, *workers); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.Config, logger *slog.Logger, dir, templatePath, out, rulesPath string, useLLM bool, workers int) error {
	ruleset := rules.Default()
	if rulesPath != "" {
		loaded, err := rules.Load(rulesPath)
		if err != nil {
			return common.WrapError(err, "load rules")
		}
		ruleset = loaded
	}

	exporter := export.NewService(logger)
	columns := defaultColumns
	if templatePath != "" {
		loaded, err := exporter.LoadTemplateColumns(templatePath)
		if err != nil {
			return common.WrapError(err, "load template")
		}
		columns = loaded
	}

	paths, err := collectFiles(dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported files (pdf/docx/txt/md/zip) under %s", dir)
	}
	color.Cyan("Auditing %d syllabus files from %s", len(paths), dir)

	var inferencer llm.FieldInferencer
	if useLLM {
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("--llm requires OPENAI_API_KEY")
		}
		inferencer = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}

	var history repository.RunHistory
	if cfg.History.Path != "" {
		store, err := repository.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer func() {
			if cErr := store.Close(); cErr != nil {
				logger.Warn("history close error", "error", cErr)
			}
		}()
		history = store
	}

	bar := progressbar.Default(int64(len(paths)), "analyzing")
	driver := &batch.Driver{
		Logger:     logger,
		Extractor:  docext.NewExtractor(logger),
		Normalizer: normalize.New(cfg.Normalize),
		Analyzer:   analyze.New(logger, detect.NewSet(cfg.Detect, ruleset), inferencer, cfg.LLM.Timeout),
		History:    history,
		Workers:    workers,
		OnProgress: func(done, total int) { _ = bar.Set(done) },
	}

	runID := uuid.New()
	if history != nil {
		if err := history.StartRun(ctx, runID, templatePath, len(paths)); err != nil {
			logger.Warn("history start failed", "error", err)
		}
	}

	records, err := driver.Run(ctx, runID, paths, columns)
	if err != nil {
		if history != nil {
			_ = history.FinishRun(context.WithoutCancel(ctx), runID, constants.RunStatusAborted)
		}
		return err
	}
	if history != nil {
		if err := history.FinishRun(ctx, runID, constants.RunStatusFinished); err != nil {
			logger.Warn("history finish failed", "error", err)
		}
	}

	xlsx, err := exporter.WriteWorkbook(columns, records)
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := os.WriteFile(out, xlsx, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	flagged := 0
	for _, r := range records {
		if len(r.Notes) > 0 {
			flagged++
		}
	}
	color.Green("Done: %d rows written to %s", len(records), out)
	if flagged > 0 {
		color.Yellow("%d documents have diagnostic notes", flagged)
	}
	return nil
}

// collectFiles walks dir for supported documents, expanding ZIP archives into
// a sibling directory. Results keep walk order so output rows are stable.
func collectFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			// Skip hidden dirs and our own archive expansions from a prior run.
			if path != dir && (strings.HasPrefix(d.Name(), ".") || strings.HasSuffix(d.Name(), "-unzipped")) {
				return filepath.SkipDir
			}
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if ext == "zip" {
			dest := strings.TrimSuffix(path, filepath.Ext(path)) + "-unzipped"
			members, err := docext.ExpandArchive(path, dest)
			if err != nil {
				return fmt.Errorf("expand %s: %w", path, err)
			}
			paths = append(paths, members...)
			return nil
		}
		if _, ok := constants.AllowedExtensions[ext]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
