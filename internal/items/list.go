package items

import (
	"context"
	"fmt"
	"os"
)

// maxListSize bounds plain-text item lists.
const maxListSize = 8 << 20

// TextSource reads one item per line of a UTF-8 text file.
type TextSource struct {
	Path string
}

// Items returns the trimmed, non-empty lines in order.
func (s *TextSource) Items(_ context.Context) ([]string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, &ExtractionError{Source: s.Path, Reason: ReasonUnreadable, Err: err}
	}
	if info.Size() > maxListSize {
		return nil, &ExtractionError{
			Source: s.Path,
			Reason: ReasonTooLarge,
			Err:    fmt.Errorf("%d bytes exceeds %d", info.Size(), maxListSize),
		}
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &ExtractionError{Source: s.Path, Reason: ReasonUnreadable, Err: err}
	}
	return Clean(SplitLines(string(data)))
}
