package repository

import (
	"presence_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, wrapDBError(err, "查询用户 id=%d", id)
	}
	return &user, nil
}

func (r *userRepository) FindByHandle(handle string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("handle = ?", handle).First(&user).Error; err != nil {
		return nil, wrapDBError(err, "查询用户 handle=%s", handle)
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

func (r *userRepository) UpdatePassword(id uint, passwordHash string) (int64, error) {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "更新密码 user_id=%d", id)
	}
	return result.RowsAffected, nil
}

func (r *userRepository) Search(keyword string, excludeIDs []uint, limit int) ([]model.User, error) {
	var users []model.User
	like := "%" + keyword + "%"
	query := r.db.Where("(handle LIKE ? OR nickname LIKE ?)", like, like)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "搜索用户 keyword=%s", keyword)
	}
	return users, nil
}
