package models

import "time"

// BackupInfo describes one stored database backup object.
type BackupInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"` // hex SHA-256 of the backup payload
	CreatedAt time.Time `json:"created_at"`
}
