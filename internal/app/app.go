// Package app is the application layer between the CLI and the flist
// service. It constructs dependencies from config, resolves output
// destinations, and owns the run log lifecycle.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filelist-go/internal/config"
	"filelist-go/internal/database"
	"filelist-go/internal/flist"
	"filelist-go/internal/fs"
)

// runIDs generates the per-invocation id stamped on every log line.
// Swapped for a stub in tests.
var runIDs flist.IDGenerator = flist.UUIDGenerator{}

// App wires the domain service to the real filesystem and SQLite
// stores. The caller must call Close when done.
type App struct {
	cfg     *config.Config
	outDir  string
	fsmgr   flist.FilesystemManager
	svc     *flist.Service
	log     flist.Logger
	clock   flist.Clock
	logFile *os.File
}

// ResolveOutDir picks the output directory for a run: the -o flag if
// given, else the configured default, else the current working
// directory. A flag directory that does not exist is a fatal input
// error.
func ResolveOutDir(cfg *config.Config, flagOutDir string) (string, error) {
	if flagOutDir != "" {
		if info, err := os.Stat(flagOutDir); err != nil || !info.IsDir() {
			return "", flist.Fatalf(flagOutDir, "path not found (outdir)")
		}
		return flagOutDir, nil
	}
	if cfg.OutDir != "" {
		return cfg.OutDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// NewApp creates a fully wired App. outDir is the resolved output
// directory for this run; when noLog is false the run log is written
// next to the output (or to the configured log dir).
func NewApp(cfg *config.Config, outDir string, noLog bool) (*App, error) {
	logDir := ""
	if !noLog && !cfg.NoLog {
		logDir = cfg.LogDir
		if logDir == "" {
			logDir = outDir
		}
	}

	runID := runIDs.New()
	logger, logFile, err := newLogger(logDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager()
	log := &slogAdapter{l: logger}
	clock := flist.RealClock{}

	return &App{
		cfg:     cfg,
		outDir:  outDir,
		fsmgr:   fsmgr,
		svc:     flist.NewService(fsmgr, log, clock),
		log:     log,
		clock:   clock,
		logFile: logFile,
	}, nil
}

// Close releases the run log file.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

// splitOutputName handles a --name value that embeds a directory. That
// form is mutually exclusive with -o; when used, the embedded
// directory replaces the resolved output directory.
func (a *App) splitOutputName(name, flagOutDir string) (outDir, base string, err error) {
	outDir = a.outDir
	base = name
	if name == "" {
		return outDir, "", nil
	}
	if dir := filepath.Dir(name); dir != "." {
		if flagOutDir != "" {
			return "", "", flist.Fatalf(name,
				"do not use outdir (-o, --output-to) when including the directory in outfilename (--name)")
		}
		outDir = dir
		base = filepath.Base(name)
	}
	return outDir, base, nil
}

// ScanParams are the scan command's inputs after flag parsing.
type ScanParams struct {
	ScanDir      string
	Title        string
	OutDir       string // raw -o flag, for the --name exclusivity check
	OutFileName  string
	Force        bool
	TrimParent   bool
	UsedDirsOnly bool
}

// Scan runs a scan and returns its summary and the store path written
// (empty when the tree held no files).
func (a *App) Scan(p ScanParams) (*flist.ScanSummary, string, error) {
	title := strings.ReplaceAll(p.Title, " ", "_")

	outDir, base, err := a.splitOutputName(p.OutFileName, p.OutDir)
	if err != nil {
		return nil, "", err
	}

	storePath := ""
	openStore := func() (flist.Store, error) {
		name := base
		if name == "" {
			name = StoreFileName(title, a.clock.Now())
		}
		path := filepath.Join(outDir, name)

		if _, err := os.Stat(path); err == nil {
			if !p.Force {
				return nil, flist.Fatalf(path, "output file already exists")
			}
			a.log.Info("overwrite existing file", "path", path)
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("removing existing file: %w", err)
			}
		}

		a.log.Info("writing store", "path", path)
		store, err := database.CreateStore(path)
		if err != nil {
			return nil, err
		}
		storePath = path
		return store, nil
	}

	sum, err := a.svc.Scan(flist.ScanOptions{
		ScanDir:      p.ScanDir,
		Title:        title,
		TrimParent:   p.TrimParent,
		UsedDirsOnly: p.UsedDirsOnly,
	}, openStore)
	if err != nil {
		return nil, "", err
	}
	return sum, storePath, nil
}

// MergeParams are the merge command's inputs after flag parsing.
type MergeParams struct {
	Sources     []string // "path" or "path,tag"
	OutDir      string   // raw -o flag
	OutFileName string
	Force       bool
	Append      bool
}

// ParseSources splits "path,tag" source arguments and verifies each
// file exists.
func ParseSources(args []string) ([]flist.MergeSource, error) {
	sources := make([]flist.MergeSource, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ",")
		if len(parts) > 2 {
			return nil, flist.Fatalf(arg, "invalid file name and tag (too many commas)")
		}
		src := flist.MergeSource{Path: parts[0]}
		if len(parts) == 2 {
			src.Tag = parts[1]
		}
		if _, err := os.Stat(src.Path); err != nil {
			return nil, flist.Fatalf(src.Path, "file not found")
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// Merge merges the given sources into one merged store and returns the
// summary and the destination path.
func (a *App) Merge(p MergeParams) (*flist.MergeSummary, string, error) {
	sources, err := ParseSources(p.Sources)
	if err != nil {
		return nil, "", err
	}

	outDir, base, err := a.splitOutputName(p.OutFileName, p.OutDir)
	if err != nil {
		return nil, "", err
	}
	if base == "" {
		base = MergeFileName(a.clock.Now())
	}
	destPath := filepath.Join(outDir, base)

	_, statErr := os.Stat(destPath)
	exists := statErr == nil
	switch {
	case p.Append && !exists:
		return nil, "", flist.Fatalf(destPath, "destination file not found, cannot append")
	case !p.Append && exists && !p.Force:
		return nil, "", flist.Fatalf(destPath, "output file already exists")
	case !p.Append && exists:
		a.log.Info("overwrite existing file", "path", destPath)
		if err := os.Remove(destPath); err != nil {
			return nil, "", fmt.Errorf("removing existing file: %w", err)
		}
	}

	openSource := func(path string) (flist.Store, error) {
		return database.OpenStore(path)
	}

	createdDest := false
	openDest := func() (flist.MergedStore, error) {
		if p.Append {
			a.log.Info("appending to merged store", "path", destPath)
			dest, err := database.OpenMergedStore(destPath)
			if err != nil {
				return nil, flist.Fatalf(destPath, "cannot open destination: %v", err)
			}
			return dest, nil
		}
		a.log.Info("writing merged store", "path", destPath)
		dest, err := database.CreateMergedStore(destPath)
		if err == nil {
			createdDest = true
		}
		return dest, err
	}

	sum, err := a.svc.Merge(sources, openSource, openDest)
	if err != nil {
		// A fresh merge is all-or-nothing: don't leave a schema-only
		// destination behind.
		if createdDest {
			if rmErr := os.Remove(destPath); rmErr != nil {
				a.log.Warn("cannot remove failed merge output", "path", destPath, "error", rmErr)
			}
		}
		return nil, "", err
	}
	return sum, destPath, nil
}

// ExportParams are the export command's inputs after flag parsing.
type ExportParams struct {
	DBFile      string
	FullName    bool
	Alt         bool
	DirFileName bool
}

// Export reads a store and writes the selected CSV layouts. Returns
// the store's metadata (for display) and the paths written.
func (a *App) Export(p ExportParams) (*flist.StoreInfo, []string, error) {
	store, err := database.OpenStore(p.DBFile)
	if err != nil {
		return nil, nil, flist.Fatalf(p.DBFile, "cannot open store: %v", err)
	}
	defer store.Close()

	info, err := store.Info()
	if err != nil {
		return nil, nil, flist.Fatalf(p.DBFile, "not a valid filelist store: %v", err)
	}

	exporter := flist.NewExporter(a.log)
	written, err := exporter.Export(store, flist.ExportOptions{
		OutDir:      a.outDir,
		FullName:    p.FullName,
		Alt:         p.Alt,
		DirFileName: p.DirFileName,
	})
	if err != nil {
		return nil, nil, err
	}
	return info, written, nil
}
