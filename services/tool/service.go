package tool

import (
	"context"
	"fmt"

	toolRepo "labreserve/database/repository/tool"
	"labreserve/models"
)

// ToolService exposes the lab equipment inventory.
type ToolService interface {
	ListTools(ctx context.Context) ([]models.Tool, error)
	GetTool(ctx context.Context, id int) (*models.Tool, error)
	SetStatus(ctx context.Context, actor models.Requester, id int, status string) error
}

// DefaultToolService implements ToolService.
type DefaultToolService struct {
	Repo toolRepo.ToolRepository
}

func (svc *DefaultToolService) ListTools(ctx context.Context) ([]models.Tool, error) {
	return svc.Repo.GetAll(ctx)
}

func (svc *DefaultToolService) GetTool(ctx context.Context, id int) (*models.Tool, error) {
	return svc.Repo.GetByID(ctx, id)
}

// SetStatus flips a tool between up and down. Admin only: a down tool
// disappears from the bookable set for everyone.
func (svc *DefaultToolService) SetStatus(ctx context.Context, actor models.Requester, id int, status string) error {
	if !actor.Admin {
		return fmt.Errorf("only admins may change tool status")
	}
	if status != models.ToolStatusUp && status != models.ToolStatusDown {
		return fmt.Errorf("unknown tool status %q", status)
	}
	return svc.Repo.SetStatus(ctx, id, status)
}
