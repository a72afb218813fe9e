package flist

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ExportOptions select which flat-file layouts to write. The default
// layout is always written; the others are opt-in.
type ExportOptions struct {
	OutDir      string
	FullName    bool
	Alt         bool
	DirFileName bool
}

// Exporter reads a store and writes CSV files. It consumes only the
// Store read contract.
type Exporter struct {
	log Logger
}

func NewExporter(log Logger) *Exporter {
	return &Exporter{log: log}
}

// Export writes the selected CSV layouts into opts.OutDir and returns
// the paths written. File names embed the store's title and creation
// timestamp so repeated exports do not collide across stores.
func (e *Exporter) Export(store Store, opts ExportOptions) ([]string, error) {
	info, err := store.Info()
	if err != nil {
		return nil, fmt.Errorf("reading store info: %w", err)
	}

	rows, err := store.Files()
	if err != nil {
		return nil, fmt.Errorf("reading file rows: %w", err)
	}

	base := fmt.Sprintf("FileList-%s-%s", info.Title, compactTimestamp(info.Created))

	written := make([]string, 0, 4)
	write := func(name string, header []string, record func(*FileRow) []string) error {
		path := filepath.Join(opts.OutDir, name)
		e.log.Info("writing export", "path", path)
		if err := writeCSV(path, header, rows, record); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	err = write(base+".csv",
		[]string{"SHA1", "MD5", "FileName", "Size", "LastModified", "Level", "DirName", "Error"},
		func(r *FileRow) []string {
			return []string{r.SHA1, r.MD5, r.Name, strconv.FormatInt(r.Size, 10),
				r.Modified, strconv.FormatInt(r.DirLevel, 10), r.DirName, r.Err}
		})
	if err != nil {
		return written, err
	}

	if opts.FullName {
		err = write(base+"-FullName.csv",
			[]string{"FullName"},
			func(r *FileRow) []string {
				return []string{r.DirName + info.PathSep + r.Name}
			})
		if err != nil {
			return written, err
		}
	}

	if opts.Alt {
		err = write(base+"-Alt.csv",
			[]string{"KEY", "SHA1", "FileName", "DirName", "LastModified", "Size",
				"FileExt", "ExtType", "Level", "FullName", "Error"},
			func(r *FileRow) []string {
				ext := filepath.Ext(r.Name)
				return []string{
					r.SHA1 + ":" + r.Name, r.SHA1, r.Name, r.DirName, r.Modified,
					strconv.FormatInt(r.Size, 10), ext, ExtensionType(ext),
					strconv.FormatInt(r.DirLevel, 10),
					r.DirName + info.PathSep + r.Name, r.Err,
				}
			})
		if err != nil {
			return written, err
		}
	}

	if opts.DirFileName {
		err = write(base+"-DirFileName.csv",
			[]string{"DirName", "FileName", "LastModified", "Size", "SHA1", "Level", "Error"},
			func(r *FileRow) []string {
				return []string{r.DirName, r.Name, r.Modified,
					strconv.FormatInt(r.Size, 10), r.SHA1,
					strconv.FormatInt(r.DirLevel, 10), r.Err}
			})
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

func writeCSV(path string, header []string, rows []*FileRow, record func(*FileRow) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// compactTimestamp turns "2006-01-02 15:04:05" into "20060102_150405"
// for use in export file names.
func compactTimestamp(created string) string {
	r := strings.NewReplacer(" ", "_", "-", "", ":", "")
	return r.Replace(created)
}

// ExtensionType classifies a file extension for the Alt layout.
func ExtensionType(ext string) string {
	e := strings.TrimPrefix(ext, ".")

	if e != "" && isNumeric(e) {
		return "Num"
	}
	if strings.Contains(e, "~") {
		return "Bak"
	}
	// Require a minimum length: a short extension like '.accdb' is
	// valid hexadecimal but should be type 'Txt'.
	if len(e) > 5 && isHex(e) {
		return "Hex"
	}
	if strings.ContainsAny(e, "=&") {
		return "Not"
	}
	return "Txt"
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
