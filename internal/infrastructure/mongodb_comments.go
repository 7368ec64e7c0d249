package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Agurato/mflix/internal/model"
)

// ownedCommentFilter matches a comment only if it was written by email
func ownedCommentFilter(commentID primitive.ObjectID, email string) bson.M {
	return bson.M{"_id": commentID, "email": email}
}

// AddComment inserts a comment, generating its ID if missing
func (m *MongoDB) AddComment(ctx context.Context, comment *model.Comment) (*mongo.InsertOneResult, error) {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	res, err := m.commentsColl.InsertOne(ctx, comment)
	if err != nil {
		log.Error().Err(err).Str("movieID", comment.MovieID.Hex()).Msg("Unable to post comment")
		return nil, fmt.Errorf("unable to post comment: %w", err)
	}
	return res, nil
}

// UpdateComment sets the text and date of a comment written by email.
// A comment that does not exist or belongs to someone else yields a zero matched count, not an error.
func (m *MongoDB) UpdateComment(ctx context.Context, commentID primitive.ObjectID, email, text string, date time.Time) (*mongo.UpdateResult, error) {
	res, err := m.commentsColl.UpdateOne(ctx,
		ownedCommentFilter(commentID, email),
		bson.M{"$set": bson.M{"text": text, "date": date}})
	if err != nil {
		log.Error().Err(err).Str("commentID", commentID.Hex()).Msg("Unable to update comment")
		return nil, fmt.Errorf("unable to update comment: %w", err)
	}
	return res, nil
}

// DeleteComment deletes a comment written by email.
// A comment that does not exist or belongs to someone else yields a zero deleted count, not an error.
func (m *MongoDB) DeleteComment(ctx context.Context, commentID primitive.ObjectID, email string) (*mongo.DeleteResult, error) {
	res, err := m.commentsColl.DeleteOne(ctx, ownedCommentFilter(commentID, email))
	if err != nil {
		log.Error().Err(err).Str("commentID", commentID.Hex()).Msg("Unable to delete comment")
		return nil, fmt.Errorf("unable to delete comment: %w", err)
	}
	return res, nil
}

// MostActiveCommenters returns the n users who wrote the most comments
func (m *MongoDB) MostActiveCommenters(ctx context.Context, n int64) ([]model.Count, error) {
	return topN(ctx, m.commentsReportColl, "email", n, false)
}
