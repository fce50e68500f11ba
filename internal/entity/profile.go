package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

const (
	MinAge       = 15
	MaxAge       = 50
	MaxBioLength = 300
)

// StringList is stored as a JSON array (jsonb on postgres).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

type Profile struct {
	ID         int64      `gorm:"primaryKey;column:id" json:"id"`
	UserID     int64      `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Username   string     `gorm:"column:username;size:255" json:"username,omitempty"`
	FirstName  string     `gorm:"column:first_name;size:255" json:"first_name,omitempty"`
	LastName   string     `gorm:"column:last_name;size:255" json:"last_name,omitempty"`
	Name       string     `gorm:"column:name;size:255;not null" json:"name"`
	Gender     Gender     `gorm:"column:gender;size:20;not null" json:"gender"`
	Age        int        `gorm:"column:age;not null" json:"age"`
	City       string     `gorm:"column:city;size:255;not null" json:"city"`
	University string     `gorm:"column:university;size:255;not null" json:"university"`
	Interests  StringList `gorm:"column:interests;type:jsonb" json:"interests"`
	Goals      StringList `gorm:"column:goals;type:jsonb" json:"goals"`
	Bio        string     `gorm:"column:bio;type:text" json:"bio,omitempty"`
	PhotoURL   string     `gorm:"column:photo_url;size:500" json:"photo_url,omitempty"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true" json:"-"`
	DeletedAt  *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Active reports whether the profile is visible to other users.
func (p *Profile) Active() bool {
	return p.IsActive && p.DeletedAt == nil
}
