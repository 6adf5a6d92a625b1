package settings

import (
	"context"

	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/repository/dynamo"
)

// Store persists settings.
type Store interface {
	repository.Repository[models.Setting, string]
	ByCategory(ctx context.Context, category string) ([]models.Setting, error)
}

// GormStore keeps settings in the relational database.
type GormStore struct {
	*repository.Gorm[models.Setting, string]
}

// ByCategory returns the settings of category ordered by key.
func (s GormStore) ByCategory(ctx context.Context, category string) ([]models.Setting, error) {
	return s.Find(ctx, "category = ?", category)
}

// DynamoStore keeps settings in a DynamoDB table keyed by "key".
type DynamoStore struct {
	*dynamo.Repository[models.Setting, string]
}

// ByCategory scans for the settings of category.
func (s DynamoStore) ByCategory(ctx context.Context, category string) ([]models.Setting, error) {
	return s.FindBy(ctx, "category", category)
}
