package repository

import (
	"time"

	"presence_chat_server/internal/model"
	"presence_chat_server/pkg/enum/friend_request_status_enum"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type friendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository 创建好友申请 Repository
func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) FindByID(id uint) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, wrapDBError(err, "查询好友申请 id=%d", id)
	}
	return &req, nil
}

func (r *friendRequestRepository) UpsertPending(senderID, receiverID uint) (*model.FriendRequest, error) {
	req := model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     friend_request_status_enum.PENDING,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sender_id"}, {Name: "receiver_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"status": friend_request_status_enum.PENDING, "updated_at": time.Now()}),
	}).Create(&req).Error
	if err != nil {
		return nil, wrapDBError(err, "写入好友申请 %d->%d", senderID, receiverID)
	}

	// 冲突更新时部分驱动不回填主键，按唯一键重新读取
	var saved model.FriendRequest
	if err := r.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(&saved).Error; err != nil {
		return nil, wrapDBError(err, "查询好友申请 %d->%d", senderID, receiverID)
	}
	return &saved, nil
}

func (r *friendRequestRepository) UpdateStatus(id uint, status string) error {
	if err := r.db.Model(&model.FriendRequest{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error; err != nil {
		return wrapDBError(err, "更新好友申请状态 id=%d", id)
	}
	return nil
}

func (r *friendRequestRepository) ListNotifications(userID uint) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := r.db.
		Where("(receiver_id = ? AND status = ?) OR (sender_id = ? AND status IN ?)",
			userID, friend_request_status_enum.PENDING,
			userID, []string{friend_request_status_enum.ACCEPTED, friend_request_status_enum.REJECTED}).
		Order("updated_at DESC").Order("id DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, wrapDBError(err, "查询好友通知 user_id=%d", userID)
	}
	return reqs, nil
}

func (r *friendRequestRepository) DeleteBySender(id, senderID uint, status string) (int64, error) {
	result := r.db.Where("id = ? AND sender_id = ? AND status = ?", id, senderID, status).
		Delete(&model.FriendRequest{})
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "删除好友申请 id=%d", id)
	}
	return result.RowsAffected, nil
}
