package story

// List query defaults and bounds. MaxLimit caps the page size server-side to
// bound response size and database load.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

var sortableFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"title":     true,
	"author":    true,
	"wordCount": true,
}

// ListQuery carries the optional filter, sort and pagination parameters of a
// list request. Zero values mean "not supplied"; Normalize fills defaults.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	Genre     string
	Author    string
	SortBy    string
	SortOrder string
}

// Normalize applies defaults and bounds so the query is always well-formed:
// page >= 1, 1 <= limit <= MaxLimit, a whitelisted sort field and a valid
// sort direction. Idempotent and deterministic.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if !sortableFields[q.SortBy] {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		q.SortOrder = DefaultSortOrder
	}
}

// Skip returns the number of records to skip for the current page.
func (q ListQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}
