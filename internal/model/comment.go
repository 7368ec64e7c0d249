package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a user comment on a movie
type Comment struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	MovieID primitive.ObjectID `bson:"movie_id" json:"movie_id"`
	Text    string             `bson:"text" json:"text"`
	Date    time.Time          `bson:"date" json:"date"`
}
