package views

/*
Pagination describes one page of an album grid. Start and End bound the
slice of images shown, and Placeholders is the number of empty slots that
pad the grid up to the page size.
*/
type Pagination struct {
	Page         int
	PageCount    int
	PageSize     int
	Start        int
	End          int
	HasPrev      bool
	HasNext      bool
	Placeholders int
}

/*
ClampPage returns page when it lies inside the album's page range and 0
otherwise. An album without images still has one (empty) page.
*/
func ClampPage(page, count, pageSize int) int {
	if page < 0 || page >= pageCount(count, pageSize) {
		return 0
	}

	return page
}

func Paginate(count, pageSize, page int) Pagination {
	if pageSize <= 0 {
		pageSize = 1
	}

	if count < 0 {
		count = 0
	}

	page = ClampPage(page, count, pageSize)
	start := page * pageSize
	end := min(start+pageSize, count)

	return Pagination{
		Page:         page,
		PageCount:    pageCount(count, pageSize),
		PageSize:     pageSize,
		Start:        start,
		End:          end,
		HasPrev:      page > 0,
		HasNext:      (page+1)*pageSize < count,
		Placeholders: pageSize - (end - start),
	}
}

// PageNumber is the one based page for display.
func (p Pagination) PageNumber() int {
	return p.Page + 1
}

func pageCount(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}

	return (count + pageSize - 1) / pageSize
}
