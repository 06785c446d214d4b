package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/matnas-digital/questionnaire-service/internal/repositories"
)

// dbOrTx picks the transaction handle when one is supplied, otherwise the
// repository's own connection. Callers pass nil outside transactions.
func dbOrTx(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// applyUserFilters applies common filters to user queries
func applyUserFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("user_type = ?", *filters.Role)
	}
	if filters.Query != "" {
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	return query
}

// applyInvitationFilters applies common filters to invitation queries
func applyInvitationFilters(query *gorm.DB, filters repositories.InvitationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Email != "" {
		query = query.Where("email = ?", filters.Email)
	}
	return query
}

// applyPagination applies limit and offset, newest rows first.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
