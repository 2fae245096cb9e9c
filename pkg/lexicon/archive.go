package lexicon

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedArchive is returned for package formats Archive cannot read.
var ErrUnsupportedArchive = errors.New("unsupported package format")

// ErrStopWalk may be returned by an EntryFunc to end a walk early without
// error.
var ErrStopWalk = errors.New("stop walk")

// EntryFunc receives each entry of a package in document order.
type EntryFunc func(member string, e Entry) error

type archiveKind int

const (
	kindZip archiveKind = iota
	kindTarGz
	kindJSON
)

// Archive is an on-disk package of lexical resource documents.
type Archive struct {
	path string
	kind archiveKind
	// Logger receives per-member debug messages. nil means no logging.
	Logger *slog.Logger
}

// OpenArchive inspects path and returns an Archive for it. Supported
// formats are .zip, .tar.gz/.tgz and a bare .json document.
func OpenArchive(path string) (*Archive, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedArchive, path)
	}
	lower := strings.ToLower(path)
	var kind archiveKind
	switch {
	case strings.HasSuffix(lower, ".zip"):
		kind = kindZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		kind = kindTarGz
	case strings.HasSuffix(lower, ".json"):
		kind = kindJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(path))
	}
	return &Archive{path: path, kind: kind}, nil
}

// Path returns the package location.
func (a *Archive) Path() string { return a.path }

// IsDocumentMember reports whether a package member holds a JSON document.
func IsDocumentMember(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json")
}

// Walk decodes members one at a time and calls fn for every entry. A member
// that fails to decode aborts the walk with an error wrapping
// ErrMalformedDocument.
func (a *Archive) Walk(ctx context.Context, fn EntryFunc) error {
	var err error
	switch a.kind {
	case kindZip:
		err = a.walkZip(ctx, fn)
	case kindTarGz:
		err = a.walkTarGz(ctx, fn)
	case kindJSON:
		err = a.walkJSON(ctx, fn)
	}
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func (a *Archive) walkZip(ctx context.Context, fn EntryFunc) error {
	zr, err := zip.OpenReader(a.path)
	if err != nil {
		return fmt.Errorf("open zip %s: %w", a.path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !IsDocumentMember(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open member %s: %w", f.Name, err)
		}
		err = a.member(ctx, f.Name, rc, fn)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) walkTarGz(ctx context.Context, fn EntryFunc) error {
	f, err := os.Open(a.path)
	if err != nil {
		return err
	}
	defer f.Close()

	gzReader, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !IsDocumentMember(header.Name) {
			continue
		}
		if err := a.member(ctx, header.Name, tarReader, fn); err != nil {
			return err
		}
	}
}

func (a *Archive) walkJSON(ctx context.Context, fn EntryFunc) error {
	f, err := os.Open(a.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return a.member(ctx, filepath.Base(a.path), f, fn)
}

func (a *Archive) member(ctx context.Context, name string, r io.Reader, fn EntryFunc) error {
	doc, err := DecodeDocument(r)
	if err != nil {
		if errors.Is(err, ErrMalformedDocument) {
			return fmt.Errorf("member %s: %w", name, err)
		}
		return fmt.Errorf("read member %s: %w", name, err)
	}
	entries := doc.Entries()
	if a.Logger != nil {
		a.Logger.Debug("decoded member", "member", name, "entries", len(entries))
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(name, e); err != nil {
			return err
		}
	}
	return nil
}
