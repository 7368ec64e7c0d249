package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a registered user
type User struct {
	ID          primitive.ObjectID `bson:"_id" json:"-"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Preferences map[string]string  `bson:"preferences,omitempty" json:"preferences,omitempty"`
	IsAdmin     bool               `bson:"isAdmin" json:"isAdmin"`
}

// Session links a logged-in user to its session token
type Session struct {
	UserID string `bson:"user_id"`
	Token  string `bson:"token"`
}

// Role is the authenticated role of the database connection
type Role struct {
	Role string `bson:"role" json:"role"`
	DB   string `bson:"db" json:"db"`
}

// Configuration reports the database client settings
type Configuration struct {
	PoolSize uint64 `json:"pool_size"`
	WTimeout int64  `json:"wtimeout"`
	AuthInfo *Role  `json:"auth_info"`
}
