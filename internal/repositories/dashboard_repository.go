package repositories

import (
	"context"

	"gorm.io/gorm"
)

// DashboardRepository interface for reporting aggregations
type DashboardRepository interface {
	GetAdminStats(ctx context.Context, tx *gorm.DB) (*AdminStats, error)

	// ListCompleted returns completed questionnaires joined with respondent
	// and questionnaire details, newest first.
	ListCompleted(ctx context.Context, tx *gorm.DB) ([]*CompletedRow, error)
}
