package domain

import (
	"time"
)

// Todo represents a todo domain entity
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Priority represents todo priority levels
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// SortField represents the fields a todo list can be sorted by
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
	SortByPriority  SortField = "priority"
)

// SortOrder represents sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TodoFilter represents filter criteria for todo queries.
// Completed is tri-state: nil means no completion predicate at all.
type TodoFilter struct {
	Completed *bool
	Priority  Priority
	Search    string
	SortBy    SortField
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Skip returns the number of records to skip for the filter's page.
func (f TodoFilter) Skip() int {
	return (f.Page - 1) * f.Limit
}

// Pagination represents pagination metadata derived from a list query.
// Total counts every record matching the filter, ignoring page/limit.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata from the requested page and
// limit and the filtered record count. TotalPages is 0 when total is 0.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// IsValid validates if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// IsValid validates if the sort field is one of the allowed fields
func (f SortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle, SortByPriority:
		return true
	default:
		return false
	}
}

// IsValid validates if the sort order is valid
func (o SortOrder) IsValid() bool {
	switch o {
	case SortAsc, SortDesc:
		return true
	default:
		return false
	}
}

// String returns string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// String returns string representation of SortField
func (f SortField) String() string {
	return string(f)
}

// String returns string representation of SortOrder
func (o SortOrder) String() string {
	return string(o)
}
