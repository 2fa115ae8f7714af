package project

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Adapter gives other modules access to the project ownership guard and
// progress invalidation through the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{
		container: container,
	}
}

// ValidateOwnership checks that the user owns the project. Returns
// ErrUnauthorized when the guard denies access.
func (a *Adapter) ValidateOwnership(ctx context.Context, projectID, userID string) error {
	req := ValidateOwnershipRequest{ProjectID: projectID, UserID: userID}
	var resp ValidateOwnershipResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-ownership",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("validate-ownership request failed: %w", err)
	}

	if !resp.Authorized {
		return ErrUnauthorized
	}

	return nil
}

// InvalidateProgress drops the cached progress aggregate for a project.
func (a *Adapter) InvalidateProgress(ctx context.Context, projectID string) error {
	req := InvalidateProgressRequest{ProjectID: projectID}
	var resp InvalidateProgressResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"invalidate-progress",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("invalidate-progress request failed: %w", err)
	}

	return nil
}
