package main

import (
	"fmt"
	"os"

	"filelist-go/internal/app"
	"filelist-go/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config, resolves the output directory for this run,
// and creates an App. The caller must defer a.Close().
func newApp(flagOutDir string, noLog bool) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	outDir, err := app.ResolveOutDir(cfg, flagOutDir)
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(cfg, outDir, noLog)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "flist",
	Short: "File inventory tool: scan, merge, and export filelist databases",
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan SCANDIR TITLE",
	Short: "Scan a directory tree into a SQLite filelist database",
	Long: "Scans a directory path recursively and creates a SQLite database " +
		"containing basic information about each file: file name, directory " +
		"path, last-modified timestamp, size, and SHA1 and MD5 hashes. The " +
		"title identifies the filelist and is used in the output file name.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("output-to")
		name, _ := cmd.Flags().GetString("name")
		force, _ := cmd.Flags().GetBool("force")
		trimParent, _ := cmd.Flags().GetBool("trim-parent")
		usedDirsOnly, _ := cmd.Flags().GetBool("used-dirs-only")
		noLog, _ := cmd.Flags().GetBool("no-log")

		a, err := newApp(outDir, noLog)
		if err != nil {
			return err
		}
		defer a.Close()

		sum, storePath, err := a.Scan(app.ScanParams{
			ScanDir:      args[0],
			Title:        args[1],
			OutDir:       outDir,
			OutFileName:  name,
			Force:        force,
			TrimParent:   trimParent,
			UsedDirsOnly: usedDirsOnly,
		})
		if err != nil {
			return err
		}

		if storePath == "" {
			fmt.Printf("No files found in '%s'.\n", args[0])
			return nil
		}

		fmt.Printf("Scanned %d file(s) in %d directories (%d bytes).\n",
			sum.FileCount, sum.DirCount, sum.TotalBytes)
		if sum.SkippedFiles > 0 || sum.SkippedDirs > 0 {
			fmt.Printf("Skipped %d file(s) and %d directory(ies); see the run log.\n",
				sum.SkippedFiles, sum.SkippedDirs)
		}
		fmt.Printf("Data written to '%s'.\n", storePath)
		return nil
	},
}

// merge command
var mergeCmd = &cobra.Command{
	Use:   "merge SOURCE[,TAG]...",
	Short: "Merge two or more filelist databases into one",
	Long: "Merges two or more SQLite databases created by 'flist scan'. A tag " +
		"(short name to use instead of a filelist's title) can be included " +
		"after a source file name using a comma with no spaces (file,tag). " +
		"With --append, a single source may be merged into an existing " +
		"merged database named by --name.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("output-to")
		name, _ := cmd.Flags().GetString("name")
		force, _ := cmd.Flags().GetBool("force")
		appendMode, _ := cmd.Flags().GetBool("append")
		noLog, _ := cmd.Flags().GetBool("no-log")

		if appendMode && name == "" {
			return fmt.Errorf("--append requires the destination file via --name")
		}
		if !appendMode && len(args) < 2 {
			return fmt.Errorf("merge requires at least two source files")
		}

		a, err := newApp(outDir, noLog)
		if err != nil {
			return err
		}
		defer a.Close()

		sum, destPath, err := a.Merge(app.MergeParams{
			Sources:     args,
			OutDir:      outDir,
			OutFileName: name,
			Force:       force,
			Append:      appendMode,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Merged %d filelist(s): %d directories, %d files.\n",
			sum.Sources, sum.Directories, sum.Files)
		fmt.Printf("Data written to '%s'.\n", destPath)
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export DB_FILE",
	Short: "Export a filelist database to CSV files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("output-to")
		fullName, _ := cmd.Flags().GetBool("fullname")
		alt, _ := cmd.Flags().GetBool("alt")
		dfn, _ := cmd.Flags().GetBool("dfn")
		noLog, _ := cmd.Flags().GetBool("no-log")

		a, err := newApp(outDir, noLog)
		if err != nil {
			return err
		}
		defer a.Close()

		info, written, err := a.Export(app.ExportParams{
			DBFile:      args[0],
			FullName:    fullName,
			Alt:         alt,
			DirFileName: dfn,
		})
		if err != nil {
			return err
		}

		fmt.Println("Filelist database details:")
		fmt.Printf("  %15s: %s\n", "created", info.Created)
		fmt.Printf("  %15s: %s\n", "host", info.Host)
		fmt.Printf("  %15s: %s\n", "scandir", info.ScanDir)
		fmt.Printf("  %15s: %s\n", "title", info.Title)
		fmt.Printf("  %15s: %s\n", "finished", info.Finished)
		fmt.Printf("  %15s: %d\n", "db_version", info.DBVersion)
		fmt.Printf("  %15s: %s %s\n", "written by", info.AppName, info.AppVersion)

		for _, path := range written {
			fmt.Printf("Wrote '%s'.\n", path)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := &config.Config{OutDir: defaults["out_dir"]}
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Output Dir: %s\n", cfg.OutDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.Load(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Output Dir: %s\n", cfg.OutDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("No Log:     %v\n", cfg.NoLog)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringP("output-to", "o", "", "Directory in which to create the output file")
	scanCmd.Flags().StringP("name", "n", "", "Name of the output file to create")
	scanCmd.Flags().Bool("force", false, "Allow an existing output file to be overwritten")
	scanCmd.Flags().BoolP("trim-parent", "t", false, "Trim parent directory of SCANDIR from stored paths")
	scanCmd.Flags().BoolP("used-dirs-only", "u", false,
		"Only save directory paths for directories that have files")
	scanCmd.Flags().Bool("no-log", false, "Do not create a log file")

	mergeCmd.Flags().StringP("output-to", "o", "", "Directory in which to create the output file")
	mergeCmd.Flags().StringP("name", "n", "", "Name of the output file to create")
	mergeCmd.Flags().Bool("force", false, "Allow an existing output file to be overwritten")
	mergeCmd.Flags().BoolP("append", "a", false, "Append to an existing merged database (requires --name)")
	mergeCmd.Flags().Bool("no-log", false, "Do not create a log file")

	exportCmd.Flags().StringP("output-to", "o", "", "Directory in which to create output files")
	exportCmd.Flags().Bool("fullname", false, "Also create the 'FullName' CSV file")
	exportCmd.Flags().Bool("alt", false, "Also create the 'Alt' (wide) CSV file")
	exportCmd.Flags().Bool("dfn", false, "Also create the CSV file by directory and file name")
	exportCmd.Flags().Bool("no-log", false, "Do not create a log file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
}
