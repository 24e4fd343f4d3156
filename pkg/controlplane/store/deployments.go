package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/triggerfish/pkg/controlplane/models"
	"github.com/marmos91/triggerfish/pkg/event"
)

// ============================================
// DEPLOYMENT OPERATIONS
// ============================================

func (s *GORMStore) GetDeployment(ctx context.Context, name string) (*models.Deployment, error) {
	return getByField[models.Deployment](s.db, ctx, "name", name, models.ErrDeploymentNotFound)
}

func (s *GORMStore) GetDeploymentByID(ctx context.Context, id string) (*models.Deployment, error) {
	return getByField[models.Deployment](s.db, ctx, "id", id, models.ErrDeploymentNotFound)
}

func (s *GORMStore) ListDeployments(ctx context.Context) ([]*models.Deployment, error) {
	var deployments []*models.Deployment
	if err := s.db.WithContext(ctx).
		Order("trigger, position, name").
		Find(&deployments).Error; err != nil {
		return nil, err
	}
	return deployments, nil
}

func (s *GORMStore) DeploymentsForTrigger(ctx context.Context, trigger event.Trigger) ([]models.Deployment, error) {
	var deployments []models.Deployment
	if err := s.db.WithContext(ctx).
		Where("trigger = ? AND enabled = ?", trigger.String(), true).
		Order("position, name").
		Find(&deployments).Error; err != nil {
		return nil, err
	}
	return deployments, nil
}

func (s *GORMStore) CreateDeployment(ctx context.Context, deployment *models.Deployment) (string, error) {
	if err := deployment.Validate(); err != nil {
		return "", err
	}

	if deployment.ID == "" {
		deployment.ID = uuid.New().String()
	}
	now := time.Now()
	deployment.CreatedAt = now
	deployment.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(deployment).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", models.ErrDuplicateDeployment
		}
		return "", err
	}
	return deployment.ID, nil
}

func (s *GORMStore) UpdateDeployment(ctx context.Context, deployment *models.Deployment) error {
	if err := deployment.Validate(); err != nil {
		return err
	}

	var existing models.Deployment
	if err := s.db.WithContext(ctx).Where("id = ?", deployment.ID).First(&existing).Error; err != nil {
		return convertNotFoundError(err, models.ErrDeploymentNotFound)
	}

	deployment.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).
		Model(&existing).
		Select("Name", "Controller", "Trigger", "Bucket", "KeyPrefix", "Position", "Interval", "Enabled", "UpdatedAt").
		Updates(deployment).Error
}

func (s *GORMStore) DeleteDeployment(ctx context.Context, name string) error {
	return deleteByField[models.Deployment](s.db, ctx, "name", name, models.ErrDeploymentNotFound)
}

func (s *GORMStore) SetDeploymentEnabled(ctx context.Context, name string, enabled bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.Deployment{}).
		Where("name = ?", name).
		Updates(map[string]any{
			"enabled":    enabled,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrDeploymentNotFound
	}
	return nil
}
