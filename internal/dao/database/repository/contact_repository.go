package repository

import (
	"presence_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建好友关系 Repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Exists(userID, contactUserID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Contact{}).
		Where("user_id = ? AND contact_user_id = ?", userID, contactUserID).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "查询好友关系 user_id=%d contact_user_id=%d", userID, contactUserID)
	}
	return count > 0, nil
}

// ExistsForShare 在事务内带共享锁读取关系行，提交前并发的删除会等待
// SQLite 不支持行锁，驱动会忽略该子句
func (r *contactRepository) ExistsForShare(userID, contactUserID uint) (bool, error) {
	var rows []model.Contact
	if err := r.db.Clauses(clause.Locking{Strength: "SHARE"}).
		Where("user_id = ? AND contact_user_id = ?", userID, contactUserID).
		Limit(1).Find(&rows).Error; err != nil {
		return false, wrapDBError(err, "加锁查询好友关系 user_id=%d contact_user_id=%d", userID, contactUserID)
	}
	return len(rows) > 0, nil
}

func (r *contactRepository) FindByUserID(userID uint) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, wrapDBError(err, "查询联系人列表 user_id=%d", userID)
	}
	return contacts, nil
}

func (r *contactRepository) ContactIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Contact{}).
		Where("user_id = ?", userID).
		Pluck("contact_user_id", &ids).Error; err != nil {
		return nil, wrapDBError(err, "查询联系人ID user_id=%d", userID)
	}
	return ids, nil
}

func (r *contactRepository) CreatePair(a, b uint) error {
	edges := []model.Contact{
		{UserID: a, ContactUserID: b},
		{UserID: b, ContactUserID: a},
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
		return wrapDBError(err, "创建好友关系 %d<->%d", a, b)
	}
	return nil
}

func (r *contactRepository) DeletePair(a, b uint) (int64, error) {
	result := r.db.
		Where("(user_id = ? AND contact_user_id = ?) OR (user_id = ? AND contact_user_id = ?)", a, b, b, a).
		Delete(&model.Contact{})
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "删除好友关系 %d<->%d", a, b)
	}
	return result.RowsAffected, nil
}

func (r *contactRepository) UpdateRemark(userID, contactUserID uint, remark string) (int64, error) {
	result := r.db.Model(&model.Contact{}).
		Where("user_id = ? AND contact_user_id = ?", userID, contactUserID).
		Update("remark", remark)
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "更新备注 user_id=%d contact_user_id=%d", userID, contactUserID)
	}
	return result.RowsAffected, nil
}
