package models

import (
	"encoding/json"
	"time"
)

// Backup is the export/import document.
type Backup struct {
	Habits     []Habit         `json:"habits"`
	Logs       LogBook         `json:"logs"`
	Settings   json.RawMessage `json:"settings,omitempty"`
	ExportDate time.Time       `json:"exportDate"`
	Version    string          `json:"version"`
}
