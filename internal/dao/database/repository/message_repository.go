package repository

import (
	"presence_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *model.ChatMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return wrapDBError(err, "保存消息 room_id=%d", msg.RoomID)
	}
	return nil
}

func (r *messageRepository) FindRecent(roomID uint, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.Where("room_id = ?", roomID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBError(err, "查询历史消息 room_id=%d", roomID)
	}
	return messages, nil
}

func (r *messageRepository) UnreadIDs(roomID, senderID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.ChatMessage{}).
		Where("room_id = ? AND sender_id = ? AND is_read = ?", roomID, senderID, false).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, wrapDBError(err, "查询未读消息 room_id=%d sender_id=%d", roomID, senderID)
	}
	return ids, nil
}

func (r *messageRepository) MarkRead(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&model.ChatMessage{}).Where("id IN ?", ids).Update("is_read", true)
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "标记消息已读")
	}
	return result.RowsAffected, nil
}
