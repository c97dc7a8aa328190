// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intake stages uploaded files in private temp directories and
// checks that their content matches their extension.
package intake

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/pdiddy/cardpress/internal/items"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/pkg/types"
)

var (
	// ErrNotAllowed is returned for extensions the intake does not accept.
	ErrNotAllowed = errors.New("file type not allowed")
	// ErrMismatch is returned when the content does not match the extension.
	ErrMismatch = errors.New("file content does not match its extension")
	// ErrTooLarge is returned when the upload exceeds MaxBytes.
	ErrTooLarge = errors.New("file too large")
)

// Upload is a staged file.
type Upload struct {
	// Name is the client's base file name.
	Name string
	// Path is where the content was written.
	Path string
	Kind types.SourceKind
	MIME string
	Size int64
}

// OutputName is the download name of the document generated from name:
// "formatted_" + name without its last extension + ".docx".
func OutputName(name string) string {
	base := filepath.Base(name)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return "formatted_" + base + ".docx"
}

// Intake stages uploads under Root.
type Intake struct {
	// Root is the parent of the per-upload directories (default os.TempDir()).
	Root string

	// Allowed lists the accepted source kinds.
	Allowed []types.SourceKind

	// MaxBytes bounds the upload size; zero means unlimited.
	MaxBytes int64
}

// New returns an Intake accepting the given kinds.
func New(root string, maxBytes int64, allowed ...types.SourceKind) *Intake {
	return &Intake{Root: root, Allowed: allowed, MaxBytes: maxBytes}
}

// Stage writes r to a fresh directory and validates it. The returned
// release function deletes the directory; it is safe to call more than
// once. On error nothing is left behind.
func (in *Intake) Stage(name string, r io.Reader) (_ *Upload, _ func(), err error) {
	base := filepath.Base(name)
	kind, err := items.KindOf(base)
	if err != nil || !slices.Contains(in.Allowed, kind) {
		return nil, nil, fmt.Errorf("%s: %w", base, ErrNotAllowed)
	}

	dir, err := os.MkdirTemp(in.Root, "cardpress-upload-")
	if err != nil {
		return nil, nil, fmt.Errorf("creating upload directory: %w", err)
	}
	release := func() { os.RemoveAll(dir) }
	defer func() {
		if err != nil {
			release()
		}
	}()

	path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(base)))
	size, err := in.copy(path, r)
	if err != nil {
		return nil, nil, err
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("detecting type of %s: %w", base, err)
	}
	if !matches(kind, mime) {
		return nil, nil, fmt.Errorf("%s detected as %s: %w", base, mime.String(), ErrMismatch)
	}

	logger := logging.GetLogger("intake")
	logger.Debug().
		Str("name", base).
		Str("kind", string(kind)).
		Str("mime", mime.String()).
		Int64("size", size).
		Msg("upload staged")

	return &Upload{Name: base, Path: path, Kind: kind, MIME: mime.String(), Size: size}, release, nil
}

func (in *Intake) copy(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	src := r
	if in.MaxBytes > 0 {
		src = io.LimitReader(r, in.MaxBytes+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		return n, fmt.Errorf("writing upload: %w", err)
	}
	if in.MaxBytes > 0 && n > in.MaxBytes {
		return n, fmt.Errorf("more than %d bytes: %w", in.MaxBytes, ErrTooLarge)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("writing upload: %w", err)
	}
	return n, nil
}

// matches reports whether the detected type fits kind. ZIP containers are
// accepted for DOCX since detection of Office formats depends on the
// order of the archive entries.
func matches(kind types.SourceKind, m *mimetype.MIME) bool {
	var want []string
	switch kind {
	case types.SourcePDF:
		want = []string{"application/pdf"}
	case types.SourceDocx:
		want = []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"}
	case types.SourceList:
		want = []string{"text/plain"}
	}
	for ; m != nil; m = m.Parent() {
		for _, w := range want {
			if m.Is(w) {
				return true
			}
		}
	}
	return false
}
