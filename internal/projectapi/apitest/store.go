package apitest

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
)

// Store is the in-memory project storage behind Server.
// Projects are kept newest first.
type Store struct {
	mu       sync.RWMutex
	projects []projectapi.Project
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Create adds a project and returns it.
func (s *Store) Create(params projectapi.CreateParams) (projectapi.Project, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return projectapi.Project{}, projectapi.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := projectapi.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: params.Description,
		Tags:        normalizeTags(params.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects = append([]projectapi.Project{p}, s.projects...)
	return p, nil
}

// Seed creates n projects named "project-<i>", oldest first, with tags.
func (s *Store) Seed(n int, tags ...string) {
	for i := 1; i <= n; i++ {
		_, _ = s.Create(projectapi.CreateParams{Name: "project-" + strconv.Itoa(i), Tags: tags})
	}
}

// Page returns the page of projects matching every tag, and the match total.
func (s *Store) Page(current, size int, tags []string) ([]projectapi.Project, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]projectapi.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if hasAllTags(p, tags) {
			matched = append(matched, p)
		}
	}

	start := (current - 1) * size
	if start >= len(matched) {
		return []projectapi.Project{}, len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]projectapi.Project, end-start)
	copy(page, matched[start:end])
	return page, len(matched)
}

// Tags returns the sorted set of tags across all projects.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.projects {
		for _, t := range p.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Count returns the number of stored projects.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

func hasAllTags(p projectapi.Project, tags []string) bool {
	for _, want := range tags {
		found := false
		for _, t := range p.Tags {
			if t == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
