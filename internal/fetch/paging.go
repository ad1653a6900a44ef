package fetch

// Paging decides where pagination starts and how the cursor moves after a
// successful page.
type Paging interface {
	Initial() int
	Next(cursor, pageSize int) int
}

// OffsetPaging counts items: 0, pageSize, 2*pageSize, ...
type OffsetPaging struct{}

func (OffsetPaging) Initial() int { return 0 }

func (OffsetPaging) Next(cursor, pageSize int) int { return cursor + pageSize }

// PageNumberPaging counts pages starting at 1. The page size is fixed by the
// backend.
type PageNumberPaging struct{}

func (PageNumberPaging) Initial() int { return 1 }

func (PageNumberPaging) Next(cursor, _ int) int { return cursor + 1 }
