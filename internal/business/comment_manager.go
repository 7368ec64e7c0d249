package business

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Agurato/mflix/internal/model"
)

const commentReportSize = 20

type CommentStorer interface {
	AddComment(ctx context.Context, comment *model.Comment) (*mongo.InsertOneResult, error)
	UpdateComment(ctx context.Context, commentID primitive.ObjectID, email, text string, date time.Time) (*mongo.UpdateResult, error)
	DeleteComment(ctx context.Context, commentID primitive.ObjectID, email string) (*mongo.DeleteResult, error)
	MostActiveCommenters(ctx context.Context, n int64) ([]model.Count, error)
}

type CommentManager struct {
	CommentStorer
	now func() time.Time
}

func NewCommentManager(cs CommentStorer) *CommentManager {
	return &CommentManager{
		CommentStorer: cs,
		now:           time.Now,
	}
}

// AddComment posts a comment from user on a movie
func (cm CommentManager) AddComment(ctx context.Context, user *model.User, movieHexID, text string) (*model.Comment, error) {
	movieID, err := primitive.ObjectIDFromHex(movieHexID)
	if err != nil {
		return nil, fmt.Errorf("%w: movie '%s'", model.ErrInvalidID, movieHexID)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrEmptyComment
	}

	comment := &model.Comment{
		Name:    user.Name,
		Email:   user.Email,
		MovieID: movieID,
		Text:    text,
		Date:    cm.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := cm.CommentStorer.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("could not add comment: %w", err)
	}
	return comment, nil
}

// UpdateComment replaces the text of a comment, only if user wrote it
func (cm CommentManager) UpdateComment(ctx context.Context, user *model.User, commentHexID, text string) (*mongo.UpdateResult, error) {
	commentID, err := primitive.ObjectIDFromHex(commentHexID)
	if err != nil {
		return nil, fmt.Errorf("%w: comment '%s'", model.ErrInvalidID, commentHexID)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrEmptyComment
	}
	return cm.CommentStorer.UpdateComment(ctx, commentID, user.Email, text, cm.now().UTC().Truncate(time.Millisecond))
}

// DeleteComment removes a comment, only if user wrote it
func (cm CommentManager) DeleteComment(ctx context.Context, user *model.User, commentHexID string) (*mongo.DeleteResult, error) {
	commentID, err := primitive.ObjectIDFromHex(commentHexID)
	if err != nil {
		return nil, fmt.Errorf("%w: comment '%s'", model.ErrInvalidID, commentHexID)
	}
	return cm.CommentStorer.DeleteComment(ctx, commentID, user.Email)
}

// CommentReport returns the n users who commented the most
func (cm CommentManager) CommentReport(ctx context.Context, n int64) ([]model.Count, error) {
	if n <= 0 {
		n = commentReportSize
	}
	return cm.CommentStorer.MostActiveCommenters(ctx, min(n, maxTopN))
}
