package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
)

// maxLineSize bounds a single stored line, which matters for long note lines.
const maxLineSize = 1 << 20

// maxPrealloc bounds the capacity reserved from a count line read off disk.
const maxPrealloc = 1024

// lineReader walks a data file one line at a time and turns any shortfall
// into an error wrapping entities.ErrCorruptFile.
type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineReader{scanner: scanner}
}

func (r *lineReader) corrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", entities.ErrCorruptFile, r.line, fmt.Sprintf(format, args...))
}

// next returns the following line verbatim.
func (r *lineReader) next(field string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: read %s: %v", entities.ErrCorruptFile, field, err)
		}
		r.line++
		return "", r.corrupt("missing %s", field)
	}
	r.line++
	return r.scanner.Text(), nil
}

// count reads a non-negative integer line.
func (r *lineReader) count(field string) (int, error) {
	raw, err := r.next(field)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, r.corrupt("invalid %s %q", field, raw)
	}
	return n, nil
}

// capHint turns a stored count into a safe initial capacity.
func capHint(n int) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}

// expect reads a line that must equal want exactly.
func (r *lineReader) expect(want string) error {
	raw, err := r.next(want)
	if err != nil {
		return err
	}
	if raw != want {
		return r.corrupt("expected %s, got %q", want, raw)
	}
	return nil
}

// lineWriter accumulates a whole file before it is written in one call.
type lineWriter struct {
	buf bytes.Buffer
}

func (w *lineWriter) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *lineWriter) count(n int) {
	w.line(strconv.Itoa(n))
}

func (w *lineWriter) writeTo(path string) error {
	if err := os.WriteFile(path, w.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// loadFile opens path and hands it to decode. A missing file is an empty
// collection. Any other failure yields an empty collection and the error.
func loadFile[T any](ctx context.Context, path string, decode func(*lineReader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return []T{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return []T{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	items, err := decode(newLineReader(f))
	if err != nil {
		return []T{}, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// singleLine flattens embedded line breaks so a field stays on one line.
func singleLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
