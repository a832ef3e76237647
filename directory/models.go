package directory

import "time"

// User is a chat user keyed by the messenger's user id.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Username  string `gorm:"size:64;index"`
	FirstName string `gorm:"size:128"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chat is keyed by the messenger's chat id. Private chats share the user's id.
type Chat struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership links a user to a chat they were seen in.
type Membership struct {
	ChatID    int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// UsageRecord is one completed transcription.
type UsageRecord struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"index"`
	ChatID    int64
	MessageID int64
	Duration  float64
	CreatedAt time.Time `gorm:"index"`
	Chat      Chat      `gorm:"foreignKey:ChatID"`
}

func (UsageRecord) TableName() string { return "usages" }

// Models lists everything the directory migrates.
func Models() []any {
	return []any{&User{}, &Chat{}, &Membership{}, &UsageRecord{}}
}
