package models

import "time"

type TimeModel struct {
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty"`
}

type User struct {
	ID        string `bson:"_id,omitempty"`
	Email     string `bson:"email"`
	Username  string `bson:"username"`
	Password  string `bson:"password"`
	Activated bool   `bson:"activated"`
	TimeModel `bson:",inline"`
}
