package repository

import (
	"github.com/pairlink/pairlink-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// Upsert stores a subscription, refreshing the keys if the (user, endpoint)
// pair already exists. Browsers rotate keys on re-subscribe.
func (r *PushSubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(sub).Error
}

func (r *PushSubscriptionRepository) FindByUser(userID uint) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

func (r *PushSubscriptionRepository) DeleteByEndpoint(userID uint, endpoint string) error {
	return r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{}).Error
}

func (r *PushSubscriptionRepository) Delete(id uint) error {
	return r.db.Delete(&models.PushSubscription{}, id).Error
}
