package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateDB 创建全部数据表。
// 外键约束和复合唯一索引需要精确的 DDL，因此使用自定义 SQL 而不是 AutoMigrate。
// 所有语句都是幂等的 (CREATE TABLE IF NOT EXISTS)，启动时重复执行是安全的。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	statements := []struct {
		table string
		sql   string
	}{
		{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) NOT NULL,
		api_token CHAR(32) NOT NULL,
		created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		UNIQUE INDEX idx_username (username),
		UNIQUE INDEX idx_api_token (api_token)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`},
		{"chat_groups", `
	CREATE TABLE IF NOT EXISTS chat_groups (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		description TEXT,
		created_by BIGINT UNSIGNED NOT NULL,
		created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		INDEX idx_created_by (created_by),
		CONSTRAINT fk_groups_creator FOREIGN KEY (created_by) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`},
		{"group_members", `
	CREATE TABLE IF NOT EXISTS group_members (
		group_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		joined_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		PRIMARY KEY (group_id, user_id),
		INDEX idx_member_user (user_id),
		CONSTRAINT fk_members_group FOREIGN KEY (group_id) REFERENCES chat_groups (id),
		CONSTRAINT fk_members_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`},
		{"messages", `
	CREATE TABLE IF NOT EXISTS messages (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		group_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		INDEX idx_group_created (group_id, created_at),
		INDEX idx_message_user (user_id),
		CONSTRAINT fk_messages_group FOREIGN KEY (group_id) REFERENCES chat_groups (id),
		CONSTRAINT fk_messages_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			logrus.Errorf("Failed to create %s table: %v", stmt.table, err)
			return fmt.Errorf("failed to create %s table: %w", stmt.table, err)
		}
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
