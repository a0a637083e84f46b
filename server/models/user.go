package models

import (
	"encoding/json"
	"fmt"
	"strings"

	pkgErrors "github.com/pkg/errors"
	"github.com/vitahq/vita/server/auth"
	"gorm.io/gorm"
)

const MAX_EMERGENCY_CONTACTS = 10

var (
	allFieldsExceptPassword = []string{"id",
		"first_name",
		"last_name",
		"phone_number",
		"email",
		"emergency_contacts",
		"token_version",
		"created_at",
		"updated_at",
	}

	updatableFields = []string{"first_name",
		"last_name",
		"phone_number",
		"password",
		"token_version",
	}
)

type User struct {
	BaseModel
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	PhoneNumber  string `json:"phone_number" validate:"required,e164" gorm:"not null;unique"`
	Email        string `json:"email" validate:"required,email" gorm:"not null;unique"`
	Password     string `json:"password,omitempty" validate:"required,password" gorm:"not null"`
	// TokenVersion is bumped on every password change, revoking issued tokens
	TokenVersion uint `json:"-" gorm:"not null;default:0"`
	// EmergencyContacts holds the ordered contact list serialized as a JSON array
	EmergencyContacts      string                  `json:"-" gorm:"type:text"`
	NotificationPreference *NotificationPreference `json:"notification_preference,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Sessions               []Session               `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (user *User) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%v %v", user.FirstName, user.LastName))
}

// ContactList decodes the stored emergency contacts. Lists saved before
// contacts were stored as JSON are comma separated, so those are accepted too.
func (user *User) ContactList() ([]string, error) {
	return decodeContactList(user.EmergencyContacts)
}

// UpdateContactList replaces the user's emergency contacts with 'contacts'
func (user *User) UpdateContactList(contacts []string) error {
	if contacts == nil {
		contacts = []string{}
	}

	encoded, err := json.Marshal(contacts)
	if err != nil {
		return err
	}

	err = db.Model(&User{}).Where("id = ?", user.ID).Update("emergency_contacts", string(encoded)).Error
	if err != nil {
		return pkgErrors.Wrap(err, "UpdateContactList")
	}

	user.EmergencyContacts = string(encoded)
	return nil
}

func (user *User) Update(data map[string]interface{}) error {
	if data["password"] != nil {
		passwordHash, err := auth.HashPassword(fmt.Sprintf("%v", data["password"]))
		if err != nil {
			return err
		}
		data["password"] = passwordHash
		data["token_version"] = gorm.Expr("token_version + ?", 1)
	}

	return db.Model(&User{}).Where("id = ?", user.ID).Select(updatableFields).Updates(data).Error
}

// Preference returns the user's notification preference, creating the
// default one for accounts that predate it.
func (user *User) Preference() (*NotificationPreference, error) {
	preference := NotificationPreference{}

	err := db.Where(NotificationPreference{UserID: user.ID}).
		Attrs(defaultNotificationPreference()).
		FirstOrCreate(&preference).Error
	if err != nil {
		return nil, pkgErrors.Wrap(err, "Preference")
	}

	return &preference, nil
}

func (user *User) UpdatePreference(data map[string]interface{}) error {
	if _, err := user.Preference(); err != nil {
		return err
	}

	return db.Model(&NotificationPreference{}).
		Where("user_id = ?", user.ID).Select(preferenceFields).Updates(data).Error
}

func FindUserBy(field string, value interface{}) (*User, error) {
	user := User{}
	err := db.Select(allFieldsExceptPassword).First(&user, fmt.Sprintf("%v = ?", field), value).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindUserWithPassword looks up a user by email, including the password hash
func FindUserWithPassword(email string) (*User, error) {
	user := User{}
	err := db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func CreateUser(user *User) error {
	passwordHash, err := auth.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = passwordHash
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if user.EmergencyContacts == "" {
		user.EmergencyContacts = "[]"
	}

	preference := defaultNotificationPreference()
	user.NotificationPreference = &preference
	return db.Create(user).Error
}

// DeleteUser removes a user together with their preference & sessions
func DeleteUser(id interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&NotificationPreference{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&Session{}).Error; err != nil {
			return err
		}

		return tx.Delete(&User{}, id).Error
	})
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func decodeContactList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	if !strings.HasPrefix(raw, "[") {
		contacts := []string{}
		for _, contact := range strings.Split(raw, ",") {
			if contact = strings.TrimSpace(contact); contact != "" {
				contacts = append(contacts, contact)
			}
		}
		return contacts, nil
	}

	contacts := []string{}
	if err := json.Unmarshal([]byte(raw), &contacts); err != nil {
		return nil, pkgErrors.Wrap(err, "decodeContactList")
	}

	return contacts, nil
}
