package datastore

import (
	"fmt"

	"github.com/Azure/aace/pkg/config"
	"github.com/Azure/aace/pkg/models"
	"github.com/Azure/aace/pkg/utils"
)

// admins are stored under a reserved subscription id
const adminSubscriptionId = "admin"

var userColumns = []string{
	KUserKey, KUserId, KUserSubId, KUserDescription, KUserRole, KUserCreateTime,
	KUserKeyHash,
}

// UserStore typed access to the users table, admins included
type UserStore struct {
	store Datastore
}

func NewUserStore(store Datastore) *UserStore {
	return &UserStore{store: store}
}

func userKey(subscriptionId, userId string) string {
	return fmt.Sprintf("%s:%s", subscriptionId, userId)
}

func (u *UserStore) Get(subscriptionId, userId string) (*models.AgentUser, error) {
	data, err := u.store.Get(userKey(subscriptionId, userId), userColumns)
	if err != nil || data == nil {
		return nil, err
	}
	return userFromRow(data), nil
}

func (u *UserStore) ListBySubscription(subscriptionId string) ([]*models.AgentUser, error) {
	rows, err := u.store.ListAll(userColumns)
	if err != nil {
		return nil, err
	}
	users := make([]*models.AgentUser, 0)
	for _, data := range rows {
		if asString(data[KUserSubId]) == subscriptionId {
			users = append(users, userFromRow(data))
		}
	}
	return users, nil
}

func (u *UserStore) Upsert(user *models.AgentUser) error {
	subId := user.SubscriptionId
	if user.Role == config.ROLE_ADMIN {
		subId = adminSubscriptionId
	}
	values := map[string]interface{}{
		KUserKey:         userKey(subId, user.AADUserId),
		KUserId:          user.AADUserId,
		KUserSubId:       subId,
		KUserDescription: user.Description,
		KUserRole:        user.Role,
		KUserCreateTime:  user.CreatedTime,
	}
	if user.Key != "" {
		hashed, err := utils.EncryptKey(user.Key)
		if err != nil {
			return err
		}
		values[KUserKeyHash] = hashed
	}
	return u.store.Put(userKey(subId, user.AADUserId), values)
}

// MatchKey check a presented personal access key against the stored hash.
func (u *UserStore) MatchKey(subscriptionId, userId, key string) (bool, error) {
	data, err := u.store.Get(userKey(subscriptionId, userId), []string{KUserKeyHash})
	if err != nil || data == nil {
		return false, err
	}
	hashed := asString(data[KUserKeyHash])
	if hashed == "" {
		return false, nil
	}
	return utils.MatchKey(key, hashed), nil
}

func (u *UserStore) Delete(subscriptionId, userId string) error {
	return u.store.Delete(userKey(subscriptionId, userId))
}

func (u *UserStore) GetAdmin(userId string) (*models.AgentUser, error) {
	return u.Get(adminSubscriptionId, userId)
}

func (u *UserStore) ListAdmins() ([]*models.AgentUser, error) {
	return u.ListBySubscription(adminSubscriptionId)
}

func (u *UserStore) DeleteAdmin(userId string) error {
	return u.Delete(adminSubscriptionId, userId)
}

// MatchAdminKey check a presented admin access key.
func (u *UserStore) MatchAdminKey(userId, key string) (bool, error) {
	return u.MatchKey(adminSubscriptionId, userId, key)
}

func (u *UserStore) Close() error {
	return u.store.Close()
}

func userFromRow(data map[string]interface{}) *models.AgentUser {
	user := &models.AgentUser{
		AADUserId:      asString(data[KUserId]),
		SubscriptionId: asString(data[KUserSubId]),
		Description:    asString(data[KUserDescription]),
		Role:           asString(data[KUserRole]),
		CreatedTime:    asString(data[KUserCreateTime]),
	}
	if user.SubscriptionId == adminSubscriptionId {
		user.SubscriptionId = ""
	}
	return user
}
