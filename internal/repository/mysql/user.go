package mysql

import (
	"context"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/repository/mysql/model"
	"gorm.io/gorm"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return domain.User{}, translateError(err)
	}

	return user.ToDomain(), nil
}

func (m *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return domain.User{}, translateError(err)
	}

	return user.ToDomain(), nil
}

func (m *userRepository) GetByIDs(ctx context.Context, uids []int64) ([]domain.User, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := m.DB.WithContext(ctx).Model(&model.User{}).Where("id IN ?", uids).Find(&users).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, nil
}
