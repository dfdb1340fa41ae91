package pagination

import (
	"net/url"
	"strconv"
)

// Page describes one page of a listing.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps page number and size into valid ranges: the page number is
// at least 1, the size falls back to defaultSize when unset or non-positive
// and is capped at maxSize.
func Normalize(number, size, defaultSize, maxSize int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether another page exists after this one given the total
// record count.
func (p Page) HasNext(count int64) bool {
	return int64(p.Number*p.Size) < count
}

// HasPrevious reports whether a page exists before this one.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// Links builds the next/previous URLs for the pagination envelope from the
// request URL. A nil entry means no such page.
func (p Page) Links(requestURL *url.URL, count int64) (next *string, previous *string) {
	if p.HasNext(count) {
		u := pageURL(requestURL, p.Number+1, p.Size)
		next = &u
	}
	if p.HasPrevious() {
		u := pageURL(requestURL, p.Number-1, p.Size)
		previous = &u
	}
	return next, previous
}

func pageURL(requestURL *url.URL, number, size int) string {
	u := *requestURL
	q := u.Query()
	q.Set("page", strconv.Itoa(number))
	q.Set("page_size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return u.String()
}
