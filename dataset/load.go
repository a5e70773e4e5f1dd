package dataset

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrEmptyInput = errors.New("no header row in input")
	ErrNoRows     = errors.New("header has no data rows")
	ErrRowWidth   = errors.New("row has a different number of fields than the header")
	ErrParseValue = errors.New("field is not a number")
)

const maxLineBytes = 1 << 20

// Load reads a whitespace delimited table from the file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open dataset %s", path)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read dataset %s", path)
	}
	return t, nil
}

// Read parses a table where the first non-empty line names the columns and every following
// non-empty line holds one row of numbers. Fields are separated by runs of spaces or tabs.
func Read(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var names []string
	var cols [][]float64
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if names == nil {
			names = dedupeNames(fields)
			cols = make([][]float64, len(names))
			continue
		}

		if len(fields) != len(names) {
			return nil, errors.Wrapf(
				ErrRowWidth,
				"line %d has %d fields, header has %d", lineNum, len(fields), len(names),
			)
		}
		for j, field := range fields {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrParseValue, "line %d column %q value %q", lineNum, names[j], field)
			}
			cols[j] = append(cols[j], val)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to scan input")
	}

	if names == nil {
		return nil, ErrEmptyInput
	}
	if len(cols[0]) == 0 {
		return nil, ErrNoRows
	}
	return New(names, cols)
}

// dedupeNames renames every repeat of a header name to name.1, name.2 and so on, skipping
// suffixes that are already taken.
func dedupeNames(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]struct{}, len(names))
	for _, name := range names {
		taken[name] = struct{}{}
	}

	seen := make(map[string]int, len(names))
	for i, name := range names {
		count, repeated := seen[name]
		if !repeated {
			seen[name] = 0
			out[i] = name
			continue
		}

		candidate := name
		for {
			count++
			candidate = name + "." + strconv.Itoa(count)
			if _, exists := taken[candidate]; !exists {
				break
			}
		}
		seen[name] = count
		taken[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}

// Write emits t in the format understood by Read.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.names, " ") + "\n"); err != nil {
		return err
	}

	fields := make([]string, len(t.cols))
	for i := 0; i < t.NumRows(); i++ {
		for j, col := range t.cols {
			fields[j] = strconv.FormatFloat(col[i], 'g', -1, 64)
		}
		if _, err := bw.WriteString(strings.Join(fields, " ") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
