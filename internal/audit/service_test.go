package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"chat-hub/pkg/chat"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&chat.AuditLog{}); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func TestService_LogLifecycle(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	require.NoError(t, service.LogRegistration("conn-1", "Alice", "111"))
	require.NoError(t, service.LogGroupJoin("conn-1", "general"))
	require.NoError(t, service.LogGroupCreation("conn-1", "general"))
	require.NoError(t, service.LogDisconnect("conn-1", "111"))

	var logs []chat.AuditLog
	require.NoError(t, db.Order("created_at").Find(&logs).Error)
	require.Len(t, logs, 4)

	for _, l := range logs {
		assert.NotEmpty(t, l.ID)
		assert.Equal(t, "conn-1", l.ConnID)
	}

	assert.Equal(t, ActionRegister, logs[0].Action)
	assert.Equal(t, "Alice", logs[0].Name)
	assert.Equal(t, "111", logs[0].Mobile)
	assert.Equal(t, "general", logs[1].GroupName)
}

func TestService_GetLogs(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	require.NoError(t, service.LogRegistration("conn-1", "Alice", "111"))
	require.NoError(t, service.LogGroupCreation("conn-1", "general"))
	require.NoError(t, service.LogGroupCreation("conn-2", "random"))
	require.NoError(t, service.LogDisconnect("conn-1", "111"))

	t.Run("no filter", func(t *testing.T) {
		logs, total, err := service.GetLogs(nil, nil, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, logs, 4)
	})

	t.Run("filter by action", func(t *testing.T) {
		action := ActionCreateGroup
		logs, total, err := service.GetLogs(&action, nil, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		for _, l := range logs {
			assert.Equal(t, ActionCreateGroup, l.Action)
		}
	})

	t.Run("filter by group name", func(t *testing.T) {
		group := "random"
		logs, total, err := service.GetLogs(nil, &group, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, logs, 1)
		assert.Equal(t, "conn-2", logs[0].ConnID)
	})

	t.Run("pagination", func(t *testing.T) {
		logs, total, err := service.GetLogs(nil, nil, 2, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, logs, 2)

		logs, _, err = service.GetLogs(nil, nil, 2, 3)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})
}
