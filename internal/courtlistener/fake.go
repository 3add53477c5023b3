package courtlistener

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"benchwatch/pkg/platform/sentinel"
)

// Fake is an in-memory Client for tests and local development. Records must
// be ordered most-recently-modified-first, matching the real listing.
type Fake struct {
	mu       sync.Mutex
	Records  []JudgeRecord
	PageSize int

	// GetErrs injects per-id failures for GetJudge.
	GetErrs map[string]error
	// ListErr fails every ListChanged call when set.
	ListErr error

	ListCalls int
	GetCalls  int
}

// NewFake builds a fake upstream with the given page size.
func NewFake(pageSize int, records ...JudgeRecord) *Fake {
	return &Fake{Records: records, PageSize: pageSize}
}

func (f *Fake) ListChanged(_ context.Context, cursor Cursor, opts ListOptions) (*ListPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++

	if f.ListErr != nil {
		return nil, f.ListErr
	}

	matched := f.Records
	if opts.Jurisdiction != "" {
		matched = nil
		for _, rec := range f.Records {
			if rec.Jurisdiction == opts.Jurisdiction {
				matched = append(matched, rec)
			}
		}
	}

	size := f.PageSize
	if size <= 0 {
		size = defaultPageSize
	}

	start := 0
	if cursor != "" {
		idx, err := strconv.Atoi(string(cursor))
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		start = idx
	}
	if start >= len(matched) {
		return &ListPage{}, nil
	}

	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	page := &ListPage{Records: matched[start:end]}
	if end < len(matched) {
		page.Next = Cursor(strconv.Itoa(end))
	}
	return page, nil
}

func (f *Fake) GetJudge(_ context.Context, externalID string) (*JudgeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++

	if err, ok := f.GetErrs[externalID]; ok {
		return nil, err
	}
	for i := range f.Records {
		if f.Records[i].ID == externalID {
			rec := f.Records[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("judge %s: %w", externalID, sentinel.ErrNotFound)
}
