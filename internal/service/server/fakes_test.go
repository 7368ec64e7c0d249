package server_test

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Agurato/mflix/internal/model"
)

type fakeMovieManager struct {
	movie    *model.MovieDetail
	err      error
	lastKind model.SearchKind
	lastArg  string
	lastPage int64
}

func (f *fakeMovieManager) list(kind model.SearchKind, param string, page int64) (*model.MovieList, error) {
	f.lastKind, f.lastArg, f.lastPage = kind, param, page
	if f.err != nil {
		return nil, f.err
	}
	return &model.MovieList{Movies: []model.Movie{{Title: "Jaws"}}, Page: page, EntriesPerPage: 20, TotalResults: 1}, nil
}

func (f *fakeMovieManager) ListMovies(_ context.Context, page int64) (*model.MovieList, error) {
	return f.list(model.SearchNone, "", page)
}

func (f *fakeMovieManager) SearchMovies(_ context.Context, kind model.SearchKind, param string, page int64) (*model.MovieList, error) {
	return f.list(kind, param, page)
}

func (f *fakeMovieManager) MoviesByCountry(_ context.Context, param string) ([]model.Movie, error) {
	f.lastArg = param
	if param == "" {
		return nil, model.ErrEmptyFilter
	}
	return []model.Movie{{Title: "Amélie"}}, f.err
}

func (f *fakeMovieManager) GetMovie(_ context.Context, movieHexID string) (*model.MovieDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.movie == nil || f.movie.ID.Hex() != movieHexID {
		return nil, nil
	}
	return f.movie, nil
}

func (f *fakeMovieManager) FacetedSearch(_ context.Context, cast, genres string, page int64) (*model.FacetResult, error) {
	f.lastArg, f.lastPage = cast, page
	if cast == "" && genres == "" {
		return nil, model.ErrEmptyFilter
	}
	if f.err != nil {
		return nil, f.err
	}
	return &model.FacetResult{
		Movies:  []model.Movie{{Title: "Big"}},
		Runtime: []model.Bucket{{ID: int32(90), Count: 1}},
		Rating:  []model.Bucket{{ID: "other", Count: 1}},
		Count:   1,
	}, nil
}

func (f *fakeMovieManager) TopValues(_ context.Context, field string, n int64) ([]model.Count, error) {
	f.lastArg = field
	if field == "panic" {
		panic("top values exploded")
	}
	if field != "genres" {
		return nil, model.ErrValidation
	}
	return []model.Count{{Key: "Drama", Count: 12}}, nil
}

func (f *fakeMovieManager) Configuration(context.Context) (*model.Configuration, error) {
	return &model.Configuration{PoolSize: 50, WTimeout: 2500}, f.err
}

type fakeCommentManager struct {
	lastText string
	lastUser *model.User
}

func (f *fakeCommentManager) AddComment(_ context.Context, user *model.User, movieHexID, text string) (*model.Comment, error) {
	f.lastUser, f.lastText = user, text
	movieID, err := primitive.ObjectIDFromHex(movieHexID)
	if err != nil {
		return nil, model.ErrInvalidID
	}
	return &model.Comment{ID: primitive.NewObjectID(), Email: user.Email, MovieID: movieID, Text: text}, nil
}

func (f *fakeCommentManager) UpdateComment(_ context.Context, user *model.User, commentHexID, text string) (*mongo.UpdateResult, error) {
	f.lastUser, f.lastText = user, text
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeCommentManager) DeleteComment(_ context.Context, user *model.User, commentHexID string) (*mongo.DeleteResult, error) {
	f.lastUser = user
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (f *fakeCommentManager) CommentReport(context.Context, int64) ([]model.Count, error) {
	return []model.Count{{Key: "ada@x.com", Count: 4}}, nil
}

type fakeUserManager struct {
	users     map[string]*model.User
	passwords map[string]string
	sessions  map[string]string
}

func newFakeUserManager() *fakeUserManager {
	return &fakeUserManager{
		users:     map[string]*model.User{},
		passwords: map[string]string{},
		sessions:  map[string]string{},
	}
}

func (f *fakeUserManager) Register(_ context.Context, name, email, password string) (*model.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, model.ErrUserExists
	}
	f.users[email] = &model.User{Name: name, Email: email, IsAdmin: len(f.users) == 0}
	f.passwords[email] = password
	return f.users[email], nil
}

func (f *fakeUserManager) Login(_ context.Context, email, password string) (*model.User, string, error) {
	user, ok := f.users[email]
	if !ok || f.passwords[email] != password {
		return nil, "", model.ErrAuthentication
	}
	token := "token-" + email
	f.sessions[email] = token
	return user, token, nil
}

func (f *fakeUserManager) CheckSession(_ context.Context, email, token string) (*model.User, error) {
	if f.sessions[email] == "" || f.sessions[email] != token {
		return nil, model.ErrAuthentication
	}
	return f.users[email], nil
}

func (f *fakeUserManager) Logout(_ context.Context, email string) error {
	delete(f.sessions, email)
	return nil
}

func (f *fakeUserManager) Delete(_ context.Context, email, password string) error {
	if f.passwords[email] != password {
		return model.ErrAuthentication
	}
	delete(f.users, email)
	delete(f.sessions, email)
	return nil
}

func (f *fakeUserManager) UpdatePreferences(_ context.Context, email string, preferences map[string]string) (*model.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user.Preferences = preferences
	return user, nil
}

func (f *fakeUserManager) MakeAdmin(_ context.Context, email string) error {
	user, ok := f.users[email]
	if !ok {
		return model.ErrUserNotFound
	}
	user.IsAdmin = true
	return nil
}
