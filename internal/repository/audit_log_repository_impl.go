package repository

import (
	"medical-tourism-concierge/internal/domain/entity"
	domainRepo "medical-tourism-concierge/internal/domain/repository"
	"medical-tourism-concierge/pkg/listing"

	"gorm.io/gorm"
)

var auditLogListSpec = listing.Spec{
	SearchColumns: []string{"audit_logs.action"},
	Filters: map[string]listing.FilterFunc{
		"action":  listing.Equals("audit_logs.action"),
		"user_id": listing.UUIDEquals("audit_logs.user_id"),
		"entity": func(db *gorm.DB, value string) *gorm.DB {
			return db.Where("audit_logs.metadata->>'entity' = ?", value)
		},
	},
	Sorts: map[string]string{
		"created_at": "audit_logs.created_at",
	},
	DefaultSort:  "created_at",
	DefaultOrder: listing.Desc,
	TieBreaker:   "audit_logs.id",
}

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Omit("User").Create(log).Error
}

func (r *auditLogRepository) FindAll(db *gorm.DB, q listing.Query) ([]entity.AuditLog, int64, error) {
	var logs []entity.AuditLog
	total, err := findPage(db, &entity.AuditLog{}, &logs, auditLogListSpec, q, nil, "User")
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	found, err := first(db.Preload("User").Where("id = ?", id), &log)
	if err != nil || !found {
		return nil, err
	}
	return &log, nil
}
