package repository

import (
	"context"
	"errors"
	"time"

	"commentpulse/internal/models"

	"gorm.io/gorm"
)

// ErrTerminalState is returned when a lifecycle transition targets a project
// already in success or fail.
var ErrTerminalState = errors.New("project is in a terminal state")

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByPID(ctx context.Context, pid string) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerUUID string) ([]*models.Project, error)
	ListByOwnerAndStatus(ctx context.Context, ownerUUID, status string) ([]*models.Project, error)
	// MarkSuccess and MarkFail move the project to a terminal state and stamp
	// end_time. Both refuse to transition out of a terminal state.
	MarkSuccess(ctx context.Context, pid string) error
	MarkFail(ctx context.Context, pid string) error
	// OwnerByPID resolves a project's tenant uuid.
	OwnerByPID(ctx context.Context, pid string) (string, error)
	// OwnerMap returns the pid → tenant uuid mapping for all projects.
	OwnerMap(ctx context.Context) (map[string]string, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByPID(ctx context.Context, pid string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "pid = ?", pid).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerUUID string) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("uuid = ?", ownerUUID).
		Order("create_time DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) ListByOwnerAndStatus(ctx context.Context, ownerUUID, status string) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("uuid = ? AND status = ?", ownerUUID, status).
		Order("create_time DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) MarkSuccess(ctx context.Context, pid string) error {
	return r.markTerminal(ctx, pid, models.StatusSuccess)
}

func (r *projectRepository) MarkFail(ctx context.Context, pid string) error {
	return r.markTerminal(ctx, pid, models.StatusFail)
}

func (r *projectRepository) markTerminal(ctx context.Context, pid, status string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("pid = ? AND status NOT IN ?", pid, []string{models.StatusSuccess, models.StatusFail}).
		Updates(map[string]interface{}{"status": status, "end_time": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the project is gone or it already reached a terminal state.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("pid = ?", pid).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrTerminalState
	}
	return nil
}

func (r *projectRepository) OwnerByPID(ctx context.Context, pid string) (string, error) {
	var owner string
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("pid = ?", pid).
		Pluck("uuid", &owner).Error
	if err != nil {
		return "", err
	}
	return owner, nil
}

func (r *projectRepository) OwnerMap(ctx context.Context) (map[string]string, error) {
	type pidOwner struct {
		PID  string
		UUID string
	}
	var rows []pidOwner
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("pid, uuid").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	owners := make(map[string]string, len(rows))
	for _, row := range rows {
		owners[row.PID] = row.UUID
	}
	return owners, nil
}
