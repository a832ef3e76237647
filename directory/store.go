package directory

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/voicemention/database"
	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/voice"
)

// Store is the gorm-backed directory.
type Store struct {
	db  *database.DB
	log *logger.Logger
}

var (
	_ voice.RosterSource   = (*Store)(nil)
	_ voice.UsageRecorder  = (*Store)(nil)
	_ voice.MemberRecorder = (*Store)(nil)
)

func NewStore(db *database.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{db: db, log: log.WithComponent("directory")}
}

// TouchMember upserts the user, the chat and their membership. Empty
// fields keep what is stored: a blank handle or name leaves the user's
// columns alone and an empty title keeps the chat name.
func (s *Store) TouchMember(ctx context.Context, chatID int64, chatTitle string, p mention.Participant) error {
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		user := User{ID: p.ID, Username: p.Handle, FirstName: p.DisplayName}
		columns := []string{"updated_at"}
		if p.Handle != "" {
			columns = append(columns, "username")
		}
		if p.DisplayName != "" {
			columns = append(columns, "first_name")
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).Create(&user).Error; err != nil {
			return err
		}

		chat := Chat{ID: chatID, Name: chatTitle}
		update := clause.AssignmentColumns([]string{"updated_at"})
		if chatTitle != "" {
			update = clause.AssignmentColumns([]string{"name", "updated_at"})
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: update,
		}).Create(&chat).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Membership{ChatID: chatID, UserID: p.ID}).Error
	})
	if err != nil {
		return database.FromDatabase(err, "membership")
	}
	return nil
}

// Roster returns the chat's members ordered by user id.
func (s *Store) Roster(ctx context.Context, chatID int64) ([]mention.Participant, error) {
	var users []User
	err := s.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.user_id = users.id").
		Where("memberships.chat_id = ?", chatID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, database.FromDatabase(err, "roster")
	}
	out := make([]mention.Participant, len(users))
	for i, u := range users {
		out[i] = mention.Participant{ID: u.ID, DisplayName: u.FirstName, Handle: u.Username}
	}
	return out, nil
}

// RecordUsage stores one completed transcription.
func (s *Store) RecordUsage(ctx context.Context, u voice.Usage) error {
	rec := UsageRecord{UserID: u.UserID, ChatID: u.ChatID, MessageID: u.MessageID, Duration: u.Duration}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return database.FromDatabase(err, "usage")
	}
	s.log.WithContext(ctx).Info("usage recorded", logger.Fields(
		logger.FieldUserID, u.UserID,
		logger.FieldChatID, u.ChatID,
		logger.FieldAudioSecs, u.Duration,
	))
	return nil
}

// RecentUsage is one line of a user's history.
type RecentUsage struct {
	At       time.Time `json:"at"`
	ChatID   int64     `json:"chat_id"`
	ChatName string    `json:"chat_name,omitempty"`
	Private  bool      `json:"private"`
	Duration float64   `json:"duration"`
}

// Stats summarises a user's transcriptions.
type Stats struct {
	UserID        int64         `json:"user_id"`
	Total         int64         `json:"total"`
	TotalDuration float64       `json:"total_duration"`
	AvgDuration   float64       `json:"avg_duration"`
	Recent        []RecentUsage `json:"recent"`
}

// DefaultRecent is how many usages Stats lists.
const DefaultRecent = 5

// Stats returns totals and the latest usages, newest first.
func (s *Store) Stats(ctx context.Context, userID int64, recent int) (*Stats, error) {
	if recent <= 0 {
		recent = DefaultRecent
	}
	db := s.db.WithContext(ctx)

	var agg struct {
		Total         int64
		TotalDuration float64
	}
	err := db.Model(&UsageRecord{}).
		Select("COUNT(*) AS total, COALESCE(SUM(duration), 0) AS total_duration").
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return nil, database.FromDatabase(err, "usage")
	}

	var rows []UsageRecord
	err = db.Preload("Chat").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(recent).
		Find(&rows).Error
	if err != nil {
		return nil, database.FromDatabase(err, "usage")
	}

	st := &Stats{UserID: userID, Total: agg.Total, TotalDuration: agg.TotalDuration, Recent: make([]RecentUsage, 0, len(rows))}
	if agg.Total > 0 {
		st.AvgDuration = agg.TotalDuration / float64(agg.Total)
	}
	for _, r := range rows {
		st.Recent = append(st.Recent, RecentUsage{
			At:       r.CreatedAt,
			ChatID:   r.ChatID,
			ChatName: r.Chat.Name,
			Private:  r.ChatID == userID,
			Duration: r.Duration,
		})
	}
	return st, nil
}
