// Package projectlist holds the state behind the project dashboard: the
// current page, the tag filter, the page cache and the loading and error
// flags, and the rules that move between them.
//
// A Controller is not safe for concurrent mutation. Event loops should
// split a fetch into BeginFetch, run the returned request elsewhere, and
// hand the response back to ApplyResult on the loop's goroutine.
package projectlist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectboard/internal/logging"
	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
)

// FallbackError is shown when a fetch fails without a server message.
const FallbackError = "Failed to load projects"

// Options configures a Controller.
type Options struct {
	// CacheTTL bounds cached pages. 0 keeps them until invalidated.
	CacheTTL time.Duration
	Logger   *logging.Logger
	Metrics  *Metrics
}

// State is a snapshot of the controller for rendering.
type State struct {
	Page         int
	PageSize     int
	Total        int
	Projects     []projectapi.Project
	Tags         []string
	SelectedTags []string
	Loading      bool
	Error        string
}

// Request is a project fetch that must go to the network.
type Request struct {
	Key    string
	Params projectapi.ListParams
}

// Controller owns the project list state.
type Controller struct {
	service projectapi.Service
	cache   *PageCache
	logger  *logging.Logger
	metrics *Metrics

	tags     []string
	selected []string
	page     int
	projects []projectapi.Project
	total    int
	loading  bool
	err      string
}

// New creates a Controller on page 1 with no tags selected.
func New(service projectapi.Service, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		service:  service,
		cache:    NewPageCache(opts.CacheTTL, opts.Metrics),
		logger:   logger.Named("projectlist"),
		metrics:  opts.Metrics,
		projects: []projectapi.Project{},
		page:     1,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return State{
		Page:         c.page,
		PageSize:     projectapi.PageSize,
		Total:        c.total,
		Projects:     append([]projectapi.Project{}, c.projects...),
		Tags:         append([]string{}, c.tags...),
		SelectedTags: append([]string{}, c.selected...),
		Loading:      c.loading,
		Error:        c.err,
	}
}

// Page returns the current page.
func (c *Controller) Page() int { return c.page }

// Cache exposes the page cache.
func (c *Controller) Cache() *PageCache { return c.cache }

// FetchTags loads the known tags. Failures keep the previous tags.
func (c *Controller) FetchTags(ctx context.Context) {
	c.ApplyTags(ctx, c.service.GetTagsSafe(ctx))
}

// ApplyTags applies a tag response.
func (c *Controller) ApplyTags(ctx context.Context, res projectapi.TagsResult) {
	if !res.Success {
		c.logger.Warn(ctx, "keeping previous tags after failed fetch", zap.String("error", res.Error))
		return
	}
	c.tags = append([]string{}, res.Tags...)
}

// FetchProjects loads page, from cache when allowed.
func (c *Controller) FetchProjects(ctx context.Context, page int, force bool) {
	req, ok := c.BeginFetch(page, force)
	if !ok {
		return
	}
	c.ApplyResult(ctx, req, c.service.GetMyProjectsSafe(ctx, req.Params))
}

// BeginFetch serves page from the cache when force is false and no tags
// are selected. Otherwise it marks the list loading and returns the
// request to send; ok is false on a cache hit.
func (c *Controller) BeginFetch(page int, force bool) (req Request, ok bool) {
	key := CacheKey(page, c.selected)

	if !force && len(c.selected) == 0 {
		if items, hit := c.cache.Get(key); hit {
			c.projects = items
			c.err = ""
			return Request{}, false
		}
	}

	c.loading = true
	c.err = ""

	params := projectapi.ListParams{Current: page, Size: projectapi.PageSize}
	if len(c.selected) > 0 {
		params.Tags = append([]string{}, c.selected...)
	}
	return Request{Key: key, Params: params}, true
}

// ApplyResult applies the response to req. Unfiltered pages are cached.
func (c *Controller) ApplyResult(ctx context.Context, req Request, res projectapi.ListResult) {
	defer func() { c.loading = false }()

	if !res.Success {
		c.err = res.Error
		if c.err == "" {
			c.err = FallbackError
		}
		c.projects = []projectapi.Project{}
		c.total = 0
		c.countFetch("error")
		c.logger.Warn(ctx, "project fetch failed",
			zap.Int("page", req.Params.Current),
			zap.String("error", c.err))
		return
	}

	results := res.Data.Results
	if results == nil {
		results = []projectapi.Project{}
	}
	c.projects = results
	c.total = res.Data.Total
	if len(req.Params.Tags) == 0 {
		c.cache.Set(req.Key, results)
	}
	c.countFetch("success")
}

// ToggleTag adds or removes tag from the filter. An empty tag clears the
// filter. The page always resets to 1. Reports whether the page or the
// filter changed.
func (c *Controller) ToggleTag(tag string) bool {
	before := len(c.selected)

	switch {
	case tag == "":
		c.selected = nil
	case c.isSelected(tag):
		c.selected = remove(c.selected, tag)
	default:
		c.selected = append(c.selected, tag)
	}

	changed := tag != "" || before > 0 || c.page != 1
	c.page = 1
	return changed
}

// SetPage moves to page without bounds checking. Reports whether it changed.
func (c *Controller) SetPage(page int) bool {
	if page == c.page {
		return false
	}
	c.page = page
	return true
}

// ClearFilters empties the tag filter and resets to page 1.
func (c *Controller) ClearFilters() bool {
	changed := len(c.selected) > 0 || c.page != 1
	c.selected = nil
	c.page = 1
	return changed
}

// ProjectCreated puts item at the top of the list, bumps the total and
// drops every cached page.
func (c *Controller) ProjectCreated(item projectapi.Project) {
	projects := make([]projectapi.Project, 0, len(c.projects)+1)
	projects = append(projects, item)
	projects = append(projects, c.projects...)
	if len(projects) > projectapi.PageSize {
		projects = projects[:projectapi.PageSize]
	}
	c.projects = projects
	c.total++
	c.cache.Clear()
}

// Retry refetches the current page, bypassing the cache.
func (c *Controller) Retry(ctx context.Context) {
	c.FetchProjects(ctx, c.page, true)
}

// InvalidateCache drops every cached page.
func (c *Controller) InvalidateCache() {
	c.cache.Clear()
}

// TotalPages returns the page count for the current total, at least 1.
func (c *Controller) TotalPages() int {
	pages := (c.total + projectapi.PageSize - 1) / projectapi.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func (c *Controller) isSelected(tag string) bool {
	for _, t := range c.selected {
		if t == tag {
			return true
		}
	}
	return false
}

func (c *Controller) countFetch(result string) {
	if c.metrics != nil {
		c.metrics.FetchesTotal.WithLabelValues(result).Inc()
	}
}

func remove(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
