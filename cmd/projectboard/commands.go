package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/projectboard/internal/projectapi"
	"github.com/fyrsmithlabs/projectboard/internal/projectlist"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	tagColor   = color.New(color.FgGreen)
	dimColor   = color.New(color.FgHiBlack)
	errColor   = color.New(color.FgRed, color.Bold)
)

// withApp loads config, wires the app and runs fn with it.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(ctx)
	return fn(ctx, a)
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		page int
		tags []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of your projects",
		Long: `List one page of your projects, optionally filtered by tags.

Examples:
  # First page
  projectboard list

  # Third page of projects tagged go and cli
  projectboard list --page 3 --tag go --tag cli`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return projectapi.ErrInvalidPage
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				ctrl := projectlist.New(a.registry.Projects(), projectlist.Options{Logger: a.logger})
				selected := make(map[string]bool, len(tags))
				for _, t := range tags {
					if selected[t] {
						continue
					}
					selected[t] = true
					ctrl.ToggleTag(t)
				}
				ctrl.SetPage(page)
				ctrl.FetchProjects(ctx, ctrl.Page(), false)
				return printPage(cmd.OutOrStdout(), ctrl)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "filter by tag (repeatable)")
	return cmd
}

func printPage(w io.Writer, ctrl *projectlist.Controller) error {
	state := ctrl.State()
	if state.Error != "" {
		errColor.Fprintf(w, "error: %s\n", state.Error)
		return errors.New(state.Error)
	}

	titleColor.Fprintf(w, "Projects (page %d of %d, %d total)\n", state.Page, ctrl.TotalPages(), state.Total)
	if len(state.SelectedTags) > 0 {
		dimColor.Fprintf(w, "filtered by: %s\n", strings.Join(state.SelectedTags, ", "))
	}
	if len(state.Projects) == 0 {
		dimColor.Fprintln(w, "no projects")
		return nil
	}
	for _, p := range state.Projects {
		fmt.Fprintf(w, "  %s", p.Name)
		if len(p.Tags) > 0 {
			tagColor.Fprintf(w, "  [%s]", strings.Join(p.Tags, ", "))
		}
		if p.Description != "" {
			dimColor.Fprintf(w, "  %s", p.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func newTagsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tags used by your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res := a.registry.Projects().GetTagsSafe(ctx)
				if !res.Success {
					msg := res.Error
					if msg == "" {
						msg = "failed to load tags"
					}
					errColor.Fprintf(cmd.OutOrStdout(), "error: %s\n", msg)
					return errors.New(msg)
				}
				if len(res.Tags) == 0 {
					dimColor.Fprintln(cmd.OutOrStdout(), "no tags")
					return nil
				}
				for _, t := range res.Tags {
					tagColor.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			})
		},
	}
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var params projectapi.CreateParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Long: `Create a project owned by the current user.

Examples:
  projectboard create --name board --description "kanban" --tag go --tag web`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(params.Name) == "" {
				return projectapi.ErrEmptyName
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res := a.registry.Projects().CreateProjectSafe(ctx, params)
				if !res.Success {
					msg := res.Error
					if msg == "" {
						msg = "failed to create project"
					}
					errColor.Fprintf(cmd.OutOrStdout(), "error: %s\n", msg)
					return errors.New(msg)
				}
				titleColor.Fprintf(cmd.OutOrStdout(), "created %s", res.Project.Name)
				dimColor.Fprintf(cmd.OutOrStdout(), " (%s)\n", res.Project.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&params.Name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&params.Description, "description", "", "project description")
	cmd.Flags().StringArrayVar(&params.Tags, "tag", nil, "project tag (repeatable)")
	return cmd
}
