package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds credentials and profile attributes. PasswordHash is bcrypt and
// never serialized.
type User struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username      string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email         string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	FullName      string     `gorm:"size:100" json:"full_name,omitempty"`
	BirthDate     *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Gender        string     `gorm:"size:10" json:"gender,omitempty"`
	Locale        string     `gorm:"size:10;not null;default:es_ES" json:"locale"`
	Timezone      string     `gorm:"size:50;not null;default:Europe/Madrid" json:"timezone"`
	UnitSystem    string     `gorm:"size:10;not null;default:metric" json:"unit_system"`
	HeightCm      *float64   `json:"height_cm,omitempty"`
	WeightKg      *float64   `json:"weight_kg,omitempty"`
	ActivityLevel string     `gorm:"size:20" json:"activity_level,omitempty"`
	DailyCalGoal  *int       `json:"daily_cal_goal,omitempty"`
	DietPref      string     `gorm:"type:text" json:"diet_pref,omitempty"`
	AvatarURL     string     `gorm:"type:text" json:"avatar_url,omitempty"`
	Role          string     `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
