package response

import "time"

// Envelope is the uniform body shape of every API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination is attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// OK wraps data in a successful envelope.
func OK(message string, data interface{}) Envelope {
	return Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	}
}

// Err wraps an error message in a failed envelope.
func Err(message, detail string) Envelope {
	return Envelope{
		Success:   false,
		Message:   message,
		Error:     detail,
		Timestamp: now(),
	}
}

// Paginated wraps a page of data together with its pagination block.
func Paginated(message string, data interface{}, p Pagination) Envelope {
	return Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Timestamp:  now(),
		Pagination: &p,
	}
}

// NewPagination derives the pagination block from page/limit/total.
// totalPages is 0 when total is 0; hasNext = page < totalPages;
// hasPrev = page > 1.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int64(0)
	if total > 0 && limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
