package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/matthewhartstonge/argon2"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Agurato/mflix/internal/model"
)

type UserStorer interface {
	GetUser(ctx context.Context, email string) (*model.User, error)
	IsAdminPresent(ctx context.Context) (bool, error)
	AddUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, email string) error
	UpdatePreferences(ctx context.Context, email string, preferences map[string]string) error
	MakeAdmin(ctx context.Context, email string) error

	LoginUser(ctx context.Context, email, token string) error
	LogoutUser(ctx context.Context, email string) error
	GetUserSession(ctx context.Context, email string) (*model.Session, error)
}

type UserManager struct {
	UserStorer
}

func NewUserManager(us UserStorer) *UserManager {
	return &UserManager{
		UserStorer: us,
	}
}

// Register checks that the user and password follow specific rules and adds it to the database.
// The first user to register becomes admin.
func (um UserManager) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	argon := argon2.DefaultConfig()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	// Check name length
	if len(name) < 2 || len(name) > 50 {
		return nil, fmt.Errorf("%w: name must be between 2 and 50 characters", model.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is not valid", model.ErrValidation)
	}
	// Check if password is at least 8 characters
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters long", model.ErrValidation)
	}

	adminPresent, err := um.UserStorer.IsAdminPresent(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not check for admin: %w", err)
	}

	// Hash & encode password
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		log.Error().Err(err).Msg("Could not hash password")
		return nil, errors.New("an error occured while creating your account")
	}

	user := &model.User{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Email:    email,
		Password: string(encoded),
		IsAdmin:  !adminPresent,
	}
	if err := um.UserStorer.AddUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error adding user: %w", err)
	}
	user.Password = ""

	return user, nil
}

// Login checks the email/password combination and opens a new session.
// It returns the user and the session token.
func (um UserManager) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := um.checkPassword(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	if err := um.UserStorer.LoginUser(ctx, user.Email, token); err != nil {
		return nil, "", fmt.Errorf("could not open session: %w", err)
	}
	user.Password = ""

	return user, token, nil
}

// Logout closes the session of the user
func (um UserManager) Logout(ctx context.Context, email string) error {
	return um.UserStorer.LogoutUser(ctx, email)
}

// CheckSession returns the user owning the session, if token is the token of its current session
func (um UserManager) CheckSession(ctx context.Context, email, token string) (*model.User, error) {
	session, err := um.UserStorer.GetUserSession(ctx, email)
	if errors.Is(err, model.ErrSessionNotFound) {
		return nil, model.ErrAuthentication
	}
	if err != nil {
		return nil, fmt.Errorf("could not get session: %w", err)
	}
	if token == "" || session.Token != token {
		return nil, model.ErrAuthentication
	}

	user, err := um.UserStorer.GetUser(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrAuthentication
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	user.Password = ""

	return user, nil
}

// Delete removes the user and its session, after checking its password
func (um UserManager) Delete(ctx context.Context, email, password string) error {
	if _, err := um.checkPassword(ctx, email, password); err != nil {
		return err
	}
	return um.UserStorer.DeleteUser(ctx, email)
}

// UpdatePreferences replaces the preferences of the user and returns the updated user
func (um UserManager) UpdatePreferences(ctx context.Context, email string, preferences map[string]string) (*model.User, error) {
	if preferences == nil {
		preferences = map[string]string{}
	}
	if err := um.UserStorer.UpdatePreferences(ctx, email, preferences); err != nil {
		return nil, err
	}

	user, err := um.UserStorer.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	user.Password = ""

	return user, nil
}

// MakeAdmin grants admin rights to the user
func (um UserManager) MakeAdmin(ctx context.Context, email string) error {
	return um.UserStorer.MakeAdmin(ctx, email)
}

func (um UserManager) checkPassword(ctx context.Context, email, password string) (*model.User, error) {
	user, err := um.UserStorer.GetUser(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrAuthentication
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}

	// Check if the email/password combination is valid
	if ok, err := verifyPassword(password, user.Password); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Could not verify password")
		return nil, model.ErrAuthentication
	} else if !ok {
		return nil, model.ErrAuthentication
	}

	return user, nil
}

// verifyPassword checks a password against its argon2 encoding.
// Accounts imported with the sample dataset hold bcrypt hashes instead.
func verifyPassword(password, encoded string) (bool, error) {
	if strings.HasPrefix(encoded, "$2") {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}
	return argon2.VerifyEncoded([]byte(password), []byte(encoded))
}
