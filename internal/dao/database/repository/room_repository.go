package repository

import (
	"presence_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间 Repository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) FindByID(id uint) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.First(&room, id).Error; err != nil {
		return nil, wrapDBError(err, "查询房间 id=%d", id)
	}
	return &room, nil
}

func (r *roomRepository) FindPrivate(a, b uint) (*model.ChatRoom, error) {
	var room model.ChatRoom
	err := r.db.Where("pair_key = ?", model.PrivatePairKey(a, b)).Take(&room).Error
	if err != nil {
		return nil, wrapDBError(err, "查询私聊房间 %d<->%d", a, b)
	}
	return &room, nil
}

func (r *roomRepository) Create(room *model.ChatRoom) error {
	if err := r.db.Create(room).Error; err != nil {
		return wrapDBError(err, "创建房间")
	}
	return nil
}

func (r *roomRepository) CreatePrivate(a, b uint) (*model.ChatRoom, error) {
	key := model.PrivatePairKey(a, b)
	room := &model.ChatRoom{IsPrivate: true, PairKey: &key}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(room).Error; err != nil {
		return nil, wrapDBError(err, "创建私聊房间 %d<->%d", a, b)
	}
	if room.ID == 0 {
		// 并发创建时唯一键冲突，读回已存在的房间
		return r.FindPrivate(a, b)
	}
	return room, nil
}

func (r *roomRepository) AddMembers(roomID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	members := make([]model.ChatRoomMember, 0, len(userIDs))
	for _, uid := range userIDs {
		members = append(members, model.ChatRoomMember{RoomID: roomID, UserID: uid})
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error; err != nil {
		return wrapDBError(err, "添加房间成员 room_id=%d", roomID)
	}
	return nil
}

func (r *roomRepository) IsMember(roomID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.ChatRoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "查询房间成员 room_id=%d user_id=%d", roomID, userID)
	}
	return count > 0, nil
}

func (r *roomRepository) MemberIDs(roomID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.ChatRoomMember{}).
		Where("room_id = ?", roomID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, wrapDBError(err, "查询房间成员 room_id=%d", roomID)
	}
	return ids, nil
}

func (r *roomRepository) FindByUserID(userID uint) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	err := r.db.Model(&model.ChatRoom{}).
		Joins("JOIN chat_room_members m ON m.room_id = chat_rooms.id").
		Where("m.user_id = ?", userID).
		Order("chat_rooms.id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, wrapDBError(err, "查询用户房间 user_id=%d", userID)
	}
	return rooms, nil
}

func (r *roomRepository) Delete(roomID uint) error {
	if err := r.db.Where("room_id = ?", roomID).Delete(&model.ChatMessage{}).Error; err != nil {
		return wrapDBError(err, "删除房间消息 room_id=%d", roomID)
	}
	if err := r.db.Where("room_id = ?", roomID).Delete(&model.ChatRoomMember{}).Error; err != nil {
		return wrapDBError(err, "删除房间成员 room_id=%d", roomID)
	}
	if err := r.db.Delete(&model.ChatRoom{}, roomID).Error; err != nil {
		return wrapDBError(err, "删除房间 room_id=%d", roomID)
	}
	return nil
}
