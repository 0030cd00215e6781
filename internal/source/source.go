// Package source loads export files from disk and gates them before any
// parsing: extension, size, content sniffing and charset decoding.
package source

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxFileSize is the largest accepted export, in bytes.
const DefaultMaxFileSize = 10 << 20

// DefaultCharset is assumed when Options.Charset is empty.
const DefaultCharset = "utf-8"

const sniffLen = 512

var (
	ErrNotCSV   = errors.New("file is not a .csv file")
	ErrTooLarge = errors.New("file is too large")
	ErrNotText  = errors.New("file does not contain text")
)

// Options controls the gate.
type Options struct {
	MaxFileSize int64  // zero means DefaultMaxFileSize
	Charset     string // WHATWG encoding label; a BOM overrides it
}

// Document is a decoded export ready for an importer.
type Document struct {
	Name string // base name of the file
	Text string
	Size int64 // raw size in bytes, before decoding
}

// Load opens path and passes it through Read.
func Load(path string, opts Options) (*Document, error) {
	if err := checkExt(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), opts)
}

// Read gates and decodes the contents of r. name is used for the extension
// check and carried into the Document.
func Read(r io.Reader, name string, opts Options) (*Document, error) {
	if err := checkExt(name); err != nil {
		return nil, err
	}

	limit := opts.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}

	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, limit)
	}

	head := raw
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if ct := http.DetectContentType(head); !strings.HasPrefix(ct, "text/") {
		return nil, fmt.Errorf("%w: %s looks like %s", ErrNotText, name, ct)
	}

	text, err := Decode(raw, opts.Charset)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	return &Document{
		Name: name,
		Text: text,
		Size: int64(len(raw)),
	}, nil
}

// Decode converts raw from charset to UTF-8. A leading UTF-8 or UTF-16 BOM
// takes precedence over charset and is removed.
func Decode(raw []byte, charset string) (string, error) {
	if charset == "" {
		charset = DefaultCharset
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", charset, err)
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ValidCharset reports whether charset is a known encoding label.
func ValidCharset(charset string) bool {
	_, err := htmlindex.Get(charset)
	return err == nil
}

func checkExt(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s", ErrNotCSV, filepath.Base(name))
	}
	return nil
}
