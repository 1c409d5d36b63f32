package model

import (
	"time"

	"github.com/lib/pq"
)

// Resume stores uploaded-resume metadata and parsed content. The table is
// migrated for forward compatibility but no endpoint reaches it yet.
type Resume struct {
	ID     uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uint `gorm:"not null;index;<-:create" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	FileName string `gorm:"type:varchar(255)" json:"file_name"`
	FileType string `gorm:"type:varchar(100)" json:"file_type"`
	FileSize int64  `json:"file_size"`

	ParsedContent string         `gorm:"type:text" json:"parsed_content"`
	Skills        pq.StringArray `gorm:"type:text[]" json:"skills"`
	Experience    string         `gorm:"type:text" json:"experience"`
	Education     string         `gorm:"type:text" json:"education"`
	Suggestions   string         `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
