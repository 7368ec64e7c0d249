package business_test

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Agurato/mflix/internal/model"
)

type fakeMovieStorer struct {
	page       *model.MoviePage
	movie      *model.MovieDetail
	facet      *model.FacetResult
	counts     []model.Count
	config     *model.Configuration
	err        error
	calls      int
	lastQuery  model.MovieQuery
	lastFilter model.FacetFilter
	lastValues []string
	lastTop    struct {
		field   string
		n       int64
		isArray bool
	}
}

func (f *fakeMovieStorer) GetMovies(_ context.Context, query model.MovieQuery) (*model.MoviePage, error) {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	if f.page == nil {
		return &model.MoviePage{Movies: []model.Movie{}}, nil
	}
	return f.page, nil
}

func (f *fakeMovieStorer) GetMoviesByCountry(_ context.Context, countries []string) ([]model.Movie, error) {
	f.calls++
	f.lastValues = countries
	return []model.Movie{{Title: "Amélie"}}, f.err
}

func (f *fakeMovieStorer) GetMovieFromID(_ context.Context, id primitive.ObjectID) (*model.MovieDetail, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.movie == nil || f.movie.ID != id {
		return nil, model.ErrNotFound
	}
	return f.movie, nil
}

func (f *fakeMovieStorer) FacetedSearch(_ context.Context, filter model.FacetFilter, page, perPage int64) (*model.FacetResult, error) {
	f.calls++
	f.lastFilter = filter
	if filter.IsEmpty() {
		return nil, model.ErrEmptyFilter
	}
	return f.facet, f.err
}

func (f *fakeMovieStorer) TopMovieValues(_ context.Context, field string, n int64, isArray bool) ([]model.Count, error) {
	f.calls++
	f.lastTop.field, f.lastTop.n, f.lastTop.isArray = field, n, isArray
	return f.counts, f.err
}

func (f *fakeMovieStorer) GetConfiguration(context.Context) (*model.Configuration, error) {
	f.calls++
	return f.config, f.err
}

type fakeCommentStorer struct {
	comments map[primitive.ObjectID]model.Comment
	counts   []model.Count
	err      error
	calls    int
	lastN    int64
}

func newFakeCommentStorer() *fakeCommentStorer {
	return &fakeCommentStorer{comments: map[primitive.ObjectID]model.Comment{}}
}

func (f *fakeCommentStorer) AddComment(_ context.Context, comment *model.Comment) (*mongo.InsertOneResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	comment.ID = primitive.NewObjectID()
	f.comments[comment.ID] = *comment
	return &mongo.InsertOneResult{InsertedID: comment.ID}, nil
}

func (f *fakeCommentStorer) UpdateComment(_ context.Context, id primitive.ObjectID, email, text string, date time.Time) (*mongo.UpdateResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	comment, ok := f.comments[id]
	if !ok || comment.Email != email {
		return &mongo.UpdateResult{}, nil
	}
	comment.Text, comment.Date = text, date
	f.comments[id] = comment
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeCommentStorer) DeleteComment(_ context.Context, id primitive.ObjectID, email string) (*mongo.DeleteResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	comment, ok := f.comments[id]
	if !ok || comment.Email != email {
		return &mongo.DeleteResult{}, nil
	}
	delete(f.comments, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (f *fakeCommentStorer) MostActiveCommenters(_ context.Context, n int64) ([]model.Count, error) {
	f.calls++
	f.lastN = n
	return f.counts, f.err
}

type fakeUserStorer struct {
	users    map[string]model.User
	sessions map[string]string
	err      error
}

func newFakeUserStorer() *fakeUserStorer {
	return &fakeUserStorer{
		users:    map[string]model.User{},
		sessions: map[string]string{},
	}
}

func (f *fakeUserStorer) GetUser(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeUserStorer) IsAdminPresent(context.Context) (bool, error) {
	for _, user := range f.users {
		if user.IsAdmin {
			return true, f.err
		}
	}
	return false, f.err
}

func (f *fakeUserStorer) AddUser(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.Email]; ok {
		return model.ErrUserExists
	}
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserStorer) DeleteUser(_ context.Context, email string) error {
	if _, ok := f.users[email]; !ok {
		return model.ErrUserNotFound
	}
	delete(f.users, email)
	delete(f.sessions, email)
	return nil
}

func (f *fakeUserStorer) UpdatePreferences(_ context.Context, email string, preferences map[string]string) error {
	user, ok := f.users[email]
	if !ok {
		return model.ErrUserNotFound
	}
	user.Preferences = preferences
	f.users[email] = user
	return nil
}

func (f *fakeUserStorer) MakeAdmin(_ context.Context, email string) error {
	user, ok := f.users[email]
	if !ok {
		return model.ErrUserNotFound
	}
	user.IsAdmin = true
	f.users[email] = user
	return nil
}

func (f *fakeUserStorer) LoginUser(_ context.Context, email, token string) error {
	f.sessions[email] = token
	return f.err
}

func (f *fakeUserStorer) LogoutUser(_ context.Context, email string) error {
	delete(f.sessions, email)
	return f.err
}

func (f *fakeUserStorer) GetUserSession(_ context.Context, email string) (*model.Session, error) {
	token, ok := f.sessions[email]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &model.Session{UserID: email, Token: token}, nil
}
