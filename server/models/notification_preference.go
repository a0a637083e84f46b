package models

var preferenceFields = []string{"email", "sms", "push"}

type NotificationPreference struct {
	BaseModel
	UserID uint `json:"user_id" gorm:"not null;unique"`
	Email  bool `json:"email"`
	Sms    bool `json:"sms"`
	Push   bool `json:"push"`
}

func defaultNotificationPreference() NotificationPreference {
	return NotificationPreference{Email: true, Sms: true, Push: false}
}
