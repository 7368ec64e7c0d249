package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Agurato/mflix/internal/model"
)

type CommentManager interface {
	AddComment(ctx context.Context, user *model.User, movieHexID, text string) (*model.Comment, error)
	UpdateComment(ctx context.Context, user *model.User, commentHexID, text string) (*mongo.UpdateResult, error)
	DeleteComment(ctx context.Context, user *model.User, commentHexID string) (*mongo.DeleteResult, error)
	CommentReport(ctx context.Context, n int64) ([]model.Count, error)
}

// CommentMovieGetter fetches the comments of a movie once they changed
type CommentMovieGetter interface {
	GetMovie(ctx context.Context, movieHexID string) (*model.MovieDetail, error)
}

type CommentHandler struct {
	CommentManager
	CommentMovieGetter
}

func NewCommentHandler(cm CommentManager, cmg CommentMovieGetter) *CommentHandler {
	return &CommentHandler{
		CommentManager:     cm,
		CommentMovieGetter: cmg,
	}
}

type postCommentRequest struct {
	MovieID string `json:"movie_id" binding:"required"`
	Comment string `json:"comment"`
}

type putCommentRequest struct {
	CommentID      string `json:"comment_id" binding:"required"`
	UpdatedComment string `json:"updated_comment"`
	MovieID        string `json:"movie_id"`
}

type deleteCommentRequest struct {
	CommentID string `json:"comment_id" binding:"required"`
	MovieID   string `json:"movie_id"`
}

// POSTComment adds a comment from the logged-in user
func (ch CommentHandler) POSTComment(c *gin.Context) {
	var req postCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	comment, err := ch.CommentManager.AddComment(c.Request.Context(), currentUser(c), req.MovieID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"comment":  comment,
		"comments": ch.movieComments(c, req.MovieID),
	})
}

// PUTComment updates a comment of the logged-in user
func (ch CommentHandler) PUTComment(c *gin.Context) {
	var req putCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	result, err := ch.CommentManager.UpdateComment(c.Request.Context(), currentUser(c), req.CommentID, req.UpdatedComment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matched_count":  result.MatchedCount,
		"modified_count": result.ModifiedCount,
		"comments":       ch.movieComments(c, req.MovieID),
	})
}

// DELETEComment deletes a comment of the logged-in user
func (ch CommentHandler) DELETEComment(c *gin.Context) {
	var req deleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	result, err := ch.CommentManager.DeleteComment(c.Request.Context(), currentUser(c), req.CommentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deleted_count": result.DeletedCount,
		"comments":      ch.movieComments(c, req.MovieID),
	})
}

// GETCommentReport returns the users who commented the most
func (ch CommentHandler) GETCommentReport(c *gin.Context) {
	n, err := queryInt(c, "n", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := ch.CommentManager.CommentReport(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// movieComments returns the current comments of a movie, or nil if they cannot be fetched
func (ch CommentHandler) movieComments(c *gin.Context, movieHexID string) []model.Comment {
	if movieHexID == "" {
		return nil
	}
	movie, err := ch.CommentMovieGetter.GetMovie(c.Request.Context(), movieHexID)
	if err != nil || movie == nil {
		return nil
	}
	return movie.Comments
}
