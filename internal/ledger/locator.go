package ledger

import (
	"context"
	"fmt"
)

// RowLocator finds the sheet row holding a session.
type RowLocator interface {
	// Locate returns the 1-based row of sessionID, or ErrRowNotFound.
	Locate(ctx context.Context, sessionID string) (int, error)
}

type scanLocator struct {
	sheet Sheet
}

// NewRowLocator returns a RowLocator that scans a fresh read of every record.
// The first matching row wins.
func NewRowLocator(sheet Sheet) RowLocator {
	return &scanLocator{sheet: sheet}
}

func (l *scanLocator) Locate(ctx context.Context, sessionID string) (int, error) {
	records, err := l.sheet.Records(ctx)
	if err != nil {
		return 0, fmt.Errorf("read sheet: %w", err)
	}

	for i, rec := range records {
		if Identity(rec) == sessionID {
			return i + 2, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrRowNotFound, sessionID)
}
