// Package projectapi is the client for the remote Project Service.
package projectapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectboard/internal/apiclient"
	"github.com/fyrsmithlabs/projectboard/internal/logging"
)

// Endpoint paths.
const (
	TagsPath       = "/api/v1/projects/tags"
	MyProjectsPath = "/api/v1/projects/mine"
	ProjectsPath   = "/api/v1/projects"
)

// Service is the safe-call surface the project list depends on.
type Service interface {
	GetTagsSafe(ctx context.Context) TagsResult
	GetMyProjectsSafe(ctx context.Context, params ListParams) ListResult
	CreateProjectSafe(ctx context.Context, params CreateParams) CreateResult
}

// Client talks to the Project Service.
type Client struct {
	api    *apiclient.Client
	logger *logging.Logger
}

var _ Service = (*Client)(nil)

// NewClient creates a Project Service client.
func NewClient(api *apiclient.Client, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{api: api, logger: logger.Named("projectapi")}
}

// GetTags returns every tag used by the current user's projects.
func (c *Client) GetTags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := c.api.Get(ctx, TagsPath, nil, &tags); err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	return tags, nil
}

// GetMyProjects returns one page of the current user's projects.
func (c *Client) GetMyProjects(ctx context.Context, params ListParams) (*ListData, error) {
	if params.Current < 1 {
		return nil, ErrInvalidPage
	}
	size := params.Size
	if size <= 0 {
		size = PageSize
	}

	query := url.Values{}
	query.Set("current", strconv.Itoa(params.Current))
	query.Set("size", strconv.Itoa(size))
	if len(params.Tags) > 0 {
		query.Set("tags", strings.Join(params.Tags, ","))
	}

	var data ListData
	if err := c.api.Get(ctx, MyProjectsPath, query, &data); err != nil {
		return nil, fmt.Errorf("get my projects: %w", err)
	}
	return &data, nil
}

// CreateProject creates a project owned by the current user.
func (c *Client) CreateProject(ctx context.Context, params CreateParams) (*Project, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, ErrEmptyName
	}

	var project Project
	if err := c.api.Post(ctx, ProjectsPath, params, &project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &project, nil
}

// GetTagsSafe is GetTags reporting failure in the result.
func (c *Client) GetTagsSafe(ctx context.Context) TagsResult {
	tags, err := c.GetTags(ctx)
	if err != nil {
		c.logger.Warn(ctx, "tag fetch failed", zap.Error(err))
		return TagsResult{Error: apiclient.MessageOf(err)}
	}
	return TagsResult{Success: true, Tags: tags}
}

// GetMyProjectsSafe is GetMyProjects reporting failure in the result.
func (c *Client) GetMyProjectsSafe(ctx context.Context, params ListParams) ListResult {
	data, err := c.GetMyProjects(ctx, params)
	if err != nil {
		c.logger.Warn(ctx, "project fetch failed",
			zap.Int("page", params.Current),
			zap.Strings("tags", params.Tags),
			zap.Error(err))
		return ListResult{Error: apiclient.MessageOf(err)}
	}
	return ListResult{Success: true, Data: *data}
}

// CreateProjectSafe is CreateProject reporting failure in the result.
// Local validation errors are reported as the message.
func (c *Client) CreateProjectSafe(ctx context.Context, params CreateParams) CreateResult {
	project, err := c.CreateProject(ctx, params)
	if err != nil {
		c.logger.Warn(ctx, "project create failed", zap.Error(err))
		msg := apiclient.MessageOf(err)
		if msg == "" && errors.Is(err, ErrEmptyName) {
			msg = err.Error()
		}
		return CreateResult{Error: msg}
	}
	return CreateResult{Success: true, Project: project}
}
