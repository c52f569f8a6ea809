package flatfile

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"vaxreg/internal/vaccination/models"
)

const (
	maxLineBytes = 1 << 20
	// rawPrefixBytes is how much of an overlong line a skip report keeps.
	rawPrefixBytes = 64
)

// readRecords parses path line by line. Each non-blank line is decoded on its
// own so one malformed line never hides the ones after it. A missing file is
// an empty collection.
func readRecords[T any](
	path string,
	collection models.Collection,
	fields int,
	decode func([]string) (T, error),
	key func(T) string,
) ([]T, models.LoadReport, error) {
	report := models.LoadReport{Collection: collection}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("open %s: %w", collection, err)
	}
	defer f.Close()

	var (
		out  []T
		seen = make(map[string]struct{})
	)
	br := bufio.NewReader(f)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, report, fmt.Errorf("read %s: %w", collection, err)
		}
		lineNo++
		line := strings.TrimSuffix(raw, "\r")
		skip := func(reason string) {
			report.Skipped = append(report.Skipped, models.SkippedRecord{Line: lineNo, Raw: line, Reason: reason})
		}
		if tooLong {
			skip("line too long")
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := splitLine(line, fields)
		if err != nil {
			skip(err.Error())
			continue
		}
		item, err := decode(rec)
		if err != nil {
			skip(err.Error())
			continue
		}
		k := key(item)
		if _, dup := seen[k]; dup {
			skip(fmt.Sprintf("duplicate id %q", k))
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	report.Loaded = len(out)
	return out, report, nil
}

// readLine returns the next line without its newline. A line longer than
// maxLineBytes is drained and reported as tooLong with only its first
// rawPrefixBytes kept. io.EOF is returned only when nothing was read.
func readLine(br *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > maxLineBytes+1 {
				tooLong = true
				buf = append([]byte(nil), buf[:rawPrefixBytes]...)
			}
		}
		switch {
		case err == nil:
			return strings.TrimSuffix(string(buf), "\n"), tooLong, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == io.EOF && (len(buf) > 0 || tooLong):
			return string(buf), tooLong, nil
		default:
			return "", false, err
		}
	}
}

func splitLine(line string, fields int) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = fields
	rec, err := r.Read()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, pe.Err
		}
		return nil, err
	}
	if _, err := r.Read(); err != io.EOF {
		return nil, fmt.Errorf("line holds more than one record")
	}
	return rec, nil
}

// writeRecords replaces path with rows. Rows go to a temp file in the same
// directory which is synced and renamed over the target, so a failed write
// leaves the previous file intact.
func writeRecords(path string, rows [][]string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.WriteAll(rows); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	syncDir(dir)
	return nil
}

// syncDir flushes the rename to disk where the platform allows it.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
