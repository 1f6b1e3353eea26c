// Package gitlab provides the issue and label-history sources backed by
// the GitLab REST API.
package gitlab

import (
	"context"
	"fmt"
	"sync"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/sync/errgroup"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/config"
	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/logging"
	"github.com/matheus-raidiam/gitlab-issue-tracker/pkg/models"
)

// labelEventConcurrency bounds the per-issue label-history fan-out.
const labelEventConcurrency = 8

const perPage = 100

// Client encapsulates the GitLab API client.
type Client struct {
	client *gitlab.Client
}

// NewClient creates a new GitLab API client using configuration from
// environment variables and verifies the token against the current-user
// endpoint.
func NewClient() (*Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.ValidateGitLabConfig(cfg); err != nil {
		return nil, err
	}

	logging.Info("gitlab configuration",
		"base_url", cfg.GitLab.BaseURL,
		"token", logging.MaskSensitive(cfg.GitLab.Token))

	client, err := gitlab.NewClient(cfg.GitLab.Token, gitlab.WithBaseURL(cfg.GitLab.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}

	// Test the token
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, _, err := client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		logging.Error("failed to test gitlab token", "error", err)
		return nil, fmt.Errorf("error testing gitlab token: %w", err)
	}

	logging.Info("gitlab authentication successful", "username", user.Username)

	return &Client{client: client}, nil
}

// ListOpenIssues retrieves all open issues of a project, oldest first.
func (c *Client) ListOpenIssues(ctx context.Context, projectID int) ([]models.Issue, error) {
	return c.listIssues(ctx, projectID, &gitlab.ListProjectIssuesOptions{
		State: gitlab.Ptr("opened"),
	})
}

// ListClosedIssues retrieves issues closed at or after since. The API is
// queried with an updated_after hint and the precise closed_at filter is
// applied client-side, matching the dashboard's closed view.
func (c *Client) ListClosedIssues(ctx context.Context, projectID int, since time.Time) ([]models.Issue, error) {
	issues, err := c.listIssues(ctx, projectID, &gitlab.ListProjectIssuesOptions{
		State:        gitlab.Ptr("closed"),
		UpdatedAfter: gitlab.Ptr(since),
	})
	if err != nil {
		return nil, err
	}

	var result []models.Issue
	for _, issue := range issues {
		if issue.ClosedAt != nil && !issue.ClosedAt.Before(since) {
			result = append(result, issue)
		}
	}
	return result, nil
}

// listIssues pages through the project issues endpoint and converts each
// record to the internal model.
func (c *Client) listIssues(ctx context.Context, projectID int, opts *gitlab.ListProjectIssuesOptions) ([]models.Issue, error) {
	opts.OrderBy = gitlab.Ptr("created_at")
	opts.Sort = gitlab.Ptr("asc")
	opts.ListOptions = gitlab.ListOptions{PerPage: perPage}

	var result []models.Issue
	for {
		issues, resp, err := c.client.Issues.ListProjectIssues(projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			logging.Error("failed to fetch gitlab issues", "project_id", projectID, "error", err)
			return nil, fmt.Errorf("failed to fetch issues for project %d: %v", projectID, err)
		}

		for _, issue := range issues {
			result = append(result, convertIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.Debug("fetched gitlab issues", "project_id", projectID, "count", len(result))
	return result, nil
}

// ListLabelEvents retrieves the ordered label add/remove history of one
// issue.
func (c *Client) ListLabelEvents(ctx context.Context, projectID, issueIID int) ([]models.LabelEvent, error) {
	opts := &gitlab.ListLabelEventsOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage},
	}

	var result []models.LabelEvent
	for {
		events, resp, err := c.client.ResourceLabelEvents.ListIssueLabelEvents(projectID, issueIID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch label events for issue %d: %v", issueIID, err)
		}

		for _, event := range events {
			if converted, ok := convertLabelEvent(event); ok {
				result = append(result, converted)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// FetchLabelEvents fans out ListLabelEvents over the issues with bounded
// concurrency. A failed per-issue fetch is logged and skipped so that
// issue degrades to the non-historical SLA computation.
func (c *Client) FetchLabelEvents(ctx context.Context, projectID int, issues []models.Issue) map[int][]models.LabelEvent {
	events := make(map[int][]models.LabelEvent, len(issues))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(labelEventConcurrency)

	for _, issue := range issues {
		issue := issue
		g.Go(func() error {
			list, err := c.ListLabelEvents(ctx, projectID, issue.IID)
			if err != nil {
				logging.Warn("label history unavailable",
					"project_id", projectID,
					"issue_iid", issue.IID,
					"error", err)
				return nil
			}
			mu.Lock()
			events[issue.IID] = list
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return events
}

// convertIssue maps an API issue to the internal model.
func convertIssue(issue *gitlab.Issue) models.Issue {
	var createdAt time.Time
	if issue.CreatedAt != nil {
		createdAt = *issue.CreatedAt
	}

	author := ""
	if issue.Author != nil {
		author = issue.Author.Name
		if author == "" {
			author = issue.Author.Username
		}
	}

	return models.Issue{
		ID:             issue.ID,
		IID:            issue.IID,
		Title:          issue.Title,
		WebURL:         issue.WebURL,
		State:          issue.State,
		CreatedAt:      createdAt,
		ClosedAt:       issue.ClosedAt,
		Labels:         append([]string(nil), issue.Labels...),
		Author:         author,
		UserNotesCount: issue.UserNotesCount,
		Upvotes:        issue.Upvotes,
	}
}

// convertLabelEvent maps an API label event to the internal model. Events
// without a timestamp or label payload are dropped.
func convertLabelEvent(event *gitlab.LabelEvent) (models.LabelEvent, bool) {
	if event.CreatedAt == nil || event.Label.Name == "" {
		return models.LabelEvent{}, false
	}

	var action models.LabelAction
	switch event.Action {
	case "add":
		action = models.LabelAdded
	case "remove":
		action = models.LabelRemoved
	default:
		return models.LabelEvent{}, false
	}

	return models.LabelEvent{
		Timestamp: *event.CreatedAt,
		Label:     event.Label.Name,
		Action:    action,
	}, true
}
