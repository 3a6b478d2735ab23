package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QueryRecord struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Question   string         `gorm:"type:text;not null"`
	Answer     string         `gorm:"type:text"`
	Sources    datatypes.JSON `gorm:"type:jsonb"`
	Confidence string         `gorm:"type:varchar(16)"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (QueryRecord) TableName() string {
	return "query_records"
}
