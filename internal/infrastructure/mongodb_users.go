package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Agurato/mflix/internal/model"
)

// GetUser gets a user from its email
func (m *MongoDB) GetUser(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := m.usersColl.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error while retrieving user from DB: %w", err)
	}
	return &user, nil
}

// IsAdminPresent checks if there is at least one admin registered
func (m *MongoDB) IsAdminPresent(ctx context.Context) (bool, error) {
	countAdmins, err := m.usersColl.CountDocuments(ctx, bson.M{"isAdmin": true})
	if err != nil {
		return false, fmt.Errorf("error while counting admins: %w", err)
	}
	return countAdmins > 0, nil
}

// AddUser adds a user to the database. The email must not be in use already
func (m *MongoDB) AddUser(ctx context.Context, user *model.User) error {
	_, err := m.usersColl.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrUserExists
	} else if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Unable to add user")
		return fmt.Errorf("error adding user: %w", err)
	}
	return nil
}

// DeleteUser deletes the user and its session
func (m *MongoDB) DeleteUser(ctx context.Context, email string) error {
	res, err := m.usersColl.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrUserNotFound
	}
	if _, err := m.sessionsColl.DeleteOne(ctx, bson.M{"user_id": email}); err != nil {
		return fmt.Errorf("error deleting user session: %w", err)
	}
	log.Info().Str("email", email).Msg("User removed from database")
	return nil
}

// UpdatePreferences replaces the preferences of a user
func (m *MongoDB) UpdatePreferences(ctx context.Context, email string, preferences map[string]string) error {
	if preferences == nil {
		preferences = map[string]string{}
	}
	res, err := m.usersColl.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"preferences": preferences}})
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Unable to update preferences")
		return fmt.Errorf("error updating preferences: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// MakeAdmin grants the admin role to a user
func (m *MongoDB) MakeAdmin(ctx context.Context, email string) error {
	res, err := m.usersColl.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"isAdmin": true}})
	if err != nil {
		return fmt.Errorf("error granting admin role: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// LoginUser stores the session token of a user, replacing any previous one
func (m *MongoDB) LoginUser(ctx context.Context, email, token string) error {
	_, err := m.sessionsColl.UpdateOne(ctx,
		bson.M{"user_id": email},
		bson.M{"$set": bson.M{"token": token}},
		options.Update().SetUpsert(true))
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Unable to store session")
		return fmt.Errorf("error storing session: %w", err)
	}
	return nil
}

// LogoutUser removes the session of a user
func (m *MongoDB) LogoutUser(ctx context.Context, email string) error {
	if _, err := m.sessionsColl.DeleteOne(ctx, bson.M{"user_id": email}); err != nil {
		return fmt.Errorf("error removing session: %w", err)
	}
	return nil
}

// GetUserSession returns the session of a logged-in user
func (m *MongoDB) GetUserSession(ctx context.Context, email string) (*model.Session, error) {
	var session model.Session
	err := m.sessionsColl.FindOne(ctx, bson.M{"user_id": email}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error while retrieving session: %w", err)
	}
	return &session, nil
}
