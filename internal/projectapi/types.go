package projectapi

import (
	"errors"
	"time"
)

// PageSize is the fixed number of projects per page.
const PageSize = 12

// Common errors.
var (
	ErrInvalidPage = errors.New("page must be at least 1")
	ErrEmptyName   = errors.New("project name cannot be empty")
)

// Project is one entry of the my-projects listing.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListParams selects a page of the current user's projects.
type ListParams struct {
	Current int
	Size    int

	// Tags filters the listing. Empty means no filter.
	Tags []string
}

// ListData is one page of results plus the server-side total.
type ListData struct {
	Results []Project `json:"results"`
	Total   int       `json:"total"`
}

// ListResult is the outcome of GetMyProjectsSafe.
type ListResult struct {
	Success bool
	Data    ListData

	// Error is the server's message, empty when the server sent none.
	Error string
}

// TagsResult is the outcome of GetTagsSafe.
type TagsResult struct {
	Success bool
	Tags    []string
	Error   string
}

// CreateParams describes a project to create.
type CreateParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// CreateResult is the outcome of CreateProjectSafe.
type CreateResult struct {
	Success bool
	Project *Project
	Error   string
}
