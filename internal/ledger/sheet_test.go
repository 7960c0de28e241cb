package ledger_test

import (
	"context"
	"slices"
	"sync"

	"github.com/saksham0021/mira-astrology-review/internal/ledger"
)

// memSheet is an in-memory ledger.Sheet. grid[0] is the header row.
type memSheet struct {
	mu      sync.Mutex
	grid    [][]string
	err     error
	reads   int
	patches []map[int]string
}

var _ ledger.Sheet = (*memSheet)(nil)

func newMemSheet(header []string, rows ...[]string) *memSheet {
	s := &memSheet{}
	if header != nil {
		s.grid = append(s.grid, slices.Clone(header))
	}
	for _, r := range rows {
		s.grid = append(s.grid, slices.Clone(r))
	}
	return s
}

func (s *memSheet) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *memSheet) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// row returns a copy of the 1-based row.
func (s *memSheet) row(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n-1 >= len(s.grid) {
		return nil
	}
	return slices.Clone(s.grid[n-1])
}

// dataRows returns the number of rows below the header.
func (s *memSheet) dataRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return max(len(s.grid)-1, 0)
}

func (s *memSheet) Header(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if len(s.grid) == 0 {
		return nil, nil
	}
	return slices.Clone(s.grid[0]), nil
}

func (s *memSheet) Records(ctx context.Context) ([]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.grid) < 2 {
		return nil, nil
	}

	header := s.grid[0]
	out := make([]map[string]string, 0, len(s.grid)-1)
	for _, row := range s.grid[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, seen := rec[name]; seen {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *memSheet) WriteHeader(ctx context.Context, header []string) error {
	return s.WriteRow(ctx, 1, header)
}

func (s *memSheet) WriteRow(ctx context.Context, row int, values []string) error {
	return s.WriteRows(ctx, row, [][]string{values})
}

func (s *memSheet) WriteRows(ctx context.Context, startRow int, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i, values := range rows {
		idx := startRow - 1 + i
		for len(s.grid) <= idx {
			s.grid = append(s.grid, nil)
		}
		s.grid[idx] = slices.Clone(values)
	}
	return nil
}

func (s *memSheet) AppendRow(ctx context.Context, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.grid = append(s.grid, slices.Clone(values))
	return nil
}

func (s *memSheet) WriteCells(ctx context.Context, row int, cells map[int]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.patches = append(s.patches, cells)
	idx := row - 1
	for len(s.grid) <= idx {
		s.grid = append(s.grid, nil)
	}
	for col, v := range cells {
		for len(s.grid[idx]) < col {
			s.grid[idx] = append(s.grid[idx], "")
		}
		s.grid[idx][col-1] = v
	}
	return nil
}

func (s *memSheet) ClearFrom(ctx context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if row-1 < len(s.grid) {
		s.grid = s.grid[:row-1]
	}
	return nil
}
