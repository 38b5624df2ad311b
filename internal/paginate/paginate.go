// Package paginate splits ordered sequences into fixed-size pages.
package paginate

// Page is one window of a listing.
type Page[T any] struct {
	Items []T
	Index int // 1-based
	Count int // total pages in the listing
}

// IsFirst reports whether the page is served at the listing root.
func (p Page[T]) IsFirst() bool { return p.Index == 1 }

// IsLast reports whether no page follows.
func (p Page[T]) IsLast() bool { return p.Index == p.Count }

// PageCount returns ceil(n / size). size must be positive.
func PageCount(n, size int) int {
	if size <= 0 {
		panic("paginate: page size must be positive")
	}
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate slices items into contiguous pages of size items (the last may be shorter).
// An empty input yields no pages. size must be positive; configuration loading rejects
// anything else.
func Paginate[T any](items []T, size int) []Page[T] {
	count := PageCount(len(items), size)
	if count == 0 {
		return nil
	}
	pages := make([]Page[T], count)
	for i := range count {
		lo := i * size
		hi := min(lo+size, len(items))
		pages[i] = Page[T]{Items: items[lo:hi:hi], Index: i + 1, Count: count}
	}
	return pages
}
