package audit

import (
	"gorm.io/gorm"

	"chat-hub/internal/registry"
	"chat-hub/pkg/chat"
)

// Service persists presence-lifecycle records. Writes are best effort
// from the router's point of view: a failed insert is the caller's to
// log, never to propagate to a client.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Action constants for audit logging
const (
	ActionRegister    = "REGISTER"
	ActionDisconnect  = "DISCONNECT"
	ActionJoinGroup   = "JOIN_GROUP"
	ActionCreateGroup = "CREATE_GROUP"
)

// LogRegistration logs a connection registering a user identity
func (s *Service) LogRegistration(id registry.ConnID, name, mobile string) error {
	return s.db.Create(&chat.AuditLog{
		Action: ActionRegister,
		ConnID: string(id),
		Name:   name,
		Mobile: mobile,
	}).Error
}

// LogDisconnect logs a registered connection going away
func (s *Service) LogDisconnect(id registry.ConnID, mobile string) error {
	return s.db.Create(&chat.AuditLog{
		Action: ActionDisconnect,
		ConnID: string(id),
		Mobile: mobile,
	}).Error
}

// LogGroupJoin logs a connection joining a group
func (s *Service) LogGroupJoin(id registry.ConnID, group string) error {
	return s.db.Create(&chat.AuditLog{
		Action:    ActionJoinGroup,
		ConnID:    string(id),
		GroupName: group,
	}).Error
}

// LogGroupCreation logs a group being seen for the first time
func (s *Service) LogGroupCreation(id registry.ConnID, group string) error {
	return s.db.Create(&chat.AuditLog{
		Action:    ActionCreateGroup,
		ConnID:    string(id),
		GroupName: group,
	}).Error
}

// GetLogs retrieves audit logs with pagination and optional filtering by
// action and group name, newest first.
func (s *Service) GetLogs(action *string, groupName *string, limit, offset int) ([]chat.AuditLog, int64, error) {
	query := s.db.Model(&chat.AuditLog{})

	if action != nil {
		query = query.Where("action = ?", *action)
	}
	if groupName != nil {
		query = query.Where("group_name = ?", *groupName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []chat.AuditLog
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, total, err
}
