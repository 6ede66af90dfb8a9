package gcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/logger"
	gcperrors "github.com/gcpctl/gcpctl/pkg/errors"
)

// Client issues read-only gcloud calls and parses their JSON output into
// snapshot structs.
type Client struct {
	runner Runner
	log    *logger.Logger
}

// NewClient constructs a Client on top of the given runner.
func NewClient(runner Runner, log *logger.Logger) *Client {
	return &Client{runner: runner, log: log}
}

// IsNotFound reports whether err is an explicit not-found provider response,
// as opposed to a generic fetch failure.
func IsNotFound(err error) bool {
	var fetchErr *gcperrors.StateFetchError
	return errors.As(err, &fetchErr) && fetchErr.NotFound
}

// DescribeNodePool fetches a node pool snapshot.
func (c *Client) DescribeNodePool(ctx context.Context, id locator.ResourceIdentity) (*NodePool, error) {
	var pool NodePool
	args := []string{
		"container", "node-pools", "describe", id.Name,
		"--cluster=" + id.Parent,
		"--project=" + id.Project,
		id.LocationFlag(),
		"--format=json",
	}
	if err := c.describe(ctx, fmt.Sprintf("node pool %s", id.Name), args, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

// DescribeCluster fetches the parent cluster of a node pool identity.
func (c *Client) DescribeCluster(ctx context.Context, id locator.ResourceIdentity) (*Cluster, error) {
	var cluster Cluster
	args := []string{
		"container", "clusters", "describe", id.Parent,
		"--project=" + id.Project,
		id.LocationFlag(),
		"--format=json",
	}
	if err := c.describe(ctx, fmt.Sprintf("cluster %s", id.Parent), args, &cluster); err != nil {
		return nil, err
	}
	return &cluster, nil
}

// DescribeInstance fetches a VM snapshot.
func (c *Client) DescribeInstance(ctx context.Context, id locator.ResourceIdentity) (*Instance, error) {
	var instance Instance
	args := []string{
		"compute", "instances", "describe", id.Name,
		"--project=" + id.Project,
		"--zone=" + id.Location,
		"--format=json",
	}
	if err := c.describe(ctx, fmt.Sprintf("instance %s", id.Name), args, &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}

// DescribeDisk fetches a persistent disk snapshot.
func (c *Client) DescribeDisk(ctx context.Context, id locator.ResourceIdentity) (*Disk, error) {
	var disk Disk
	args := []string{
		"compute", "disks", "describe", id.Name,
		"--project=" + id.Project,
		"--zone=" + id.Location,
		"--format=json",
	}
	if err := c.describe(ctx, fmt.Sprintf("disk %s", id.Name), args, &disk); err != nil {
		return nil, err
	}
	return &disk, nil
}

// GetIAMPolicy fetches the project-level IAM policy.
func (c *Client) GetIAMPolicy(ctx context.Context, project string) (*IAMPolicy, error) {
	var policy IAMPolicy
	args := []string{
		"projects", "get-iam-policy", project,
		"--format=json",
	}
	if err := c.describe(ctx, fmt.Sprintf("iam policy of %s", project), args, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// DescribeServiceAccount fetches a service account. Absence is reported as a
// not-found StateFetchError, distinguishable through IsNotFound.
func (c *Client) DescribeServiceAccount(ctx context.Context, project, email string) (*ServiceAccount, error) {
	var account ServiceAccount
	args := []string{
		"iam", "service-accounts", "describe", email,
		"--project=" + project,
		"--format=json",
	}
	if err := c.describe(ctx, fmt.Sprintf("service account %s", email), args, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetServiceAccountIAMPolicy fetches the IAM policy attached to a service
// account itself, where workload identity bindings live.
func (c *Client) GetServiceAccountIAMPolicy(ctx context.Context, project, email string) (*IAMPolicy, error) {
	var policy IAMPolicy
	args := []string{
		"iam", "service-accounts", "get-iam-policy", email,
		"--project=" + project,
		"--format=json",
	}
	if err := c.describe(ctx, fmt.Sprintf("iam policy of %s", email), args, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (c *Client) describe(ctx context.Context, resource string, args []string, into interface{}) error {
	c.log.WithFields(map[string]any{"resource": resource}).Debug("fetching resource state")

	stdout, stderr, err := c.runner.Run(ctx, "gcloud", args...)
	if err != nil {
		if isNotFoundOutput(stderr) {
			return gcperrors.NewNotFoundError(resource)
		}
		return gcperrors.NewStateFetchError(resource, stderr, err)
	}

	if err := json.Unmarshal([]byte(stdout), into); err != nil {
		return gcperrors.NewStateFetchError(resource, "", fmt.Errorf("decode describe output: %w", err))
	}
	return nil
}
