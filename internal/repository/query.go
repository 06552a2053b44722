package repository

import (
	"errors"

	"medical-tourism-concierge/pkg/listing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// findPage counts the rows of model matching q and loads the requested page
// into dest. joins apply to both queries, preloads only to the page.
func findPage(db *gorm.DB, model, dest interface{}, spec listing.Spec, q listing.Query, joins []string, preloads ...string) (int64, error) {
	filtered := func(tx *gorm.DB) *gorm.DB {
		for _, join := range joins {
			tx = tx.Joins(join)
		}
		return tx.Scopes(spec.Scope(q))
	}

	var total int64
	if err := db.Model(model).Scopes(filtered).Count(&total).Error; err != nil {
		return 0, err
	}

	tx := db.Model(model).Scopes(filtered, spec.PageScope(q))
	for _, preload := range preloads {
		tx = tx.Preload(preload)
	}
	if err := tx.Find(dest).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// updateVersioned applies values to the row with the given id only while its
// version still equals version, and bumps the version. Zero rows affected
// means the row is gone or was modified since it was read.
func updateVersioned(db *gorm.DB, model interface{}, id uuid.UUID, version int, values map[string]interface{}) (int64, error) {
	values["version"] = gorm.Expr("version + 1")
	result := db.Model(model).
		Where("id = ? AND version = ?", id, version).
		Updates(values)
	return result.RowsAffected, result.Error
}

// first runs the query into dest and maps a missing row to (false, nil).
func first(tx *gorm.DB, dest interface{}) (bool, error) {
	if err := tx.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
