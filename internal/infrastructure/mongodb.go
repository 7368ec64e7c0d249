package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/Agurato/mflix/internal/model"
)

// Collection is the subset of *mongo.Collection used by MongoDB
type Collection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	Aggregate(ctx context.Context, pipeline any, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
}

// Commander runs database commands
type Commander interface {
	RunCommand(ctx context.Context, runCommand any, opts ...*options.RunCmdOptions) *mongo.SingleResult
}

// Collections groups the handles MongoDB works on
type Collections struct {
	Movies   Collection
	Comments Collection
	// CommentsReport is the comments collection read with a majority read concern
	CommentsReport Collection
	Users          Collection
	Sessions       Collection
	DB             Commander
}

type MongoDB struct {
	client *mongo.Client

	moviesColl         Collection
	commentsColl       Collection
	commentsReportColl Collection
	usersColl          Collection
	sessionsColl       Collection
	db                 Commander

	poolSize uint64
	wTimeout time.Duration
}

// NewMongoDB connects to the database and binds the collection handles once
func NewMongoDB(ctx context.Context, uri, dbName string, poolSize uint64, wTimeout time.Duration) (*MongoDB, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(poolSize).
		SetWriteConcern(writeconcern.New(writeconcern.WTimeout(wTimeout)))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	mongoDb := client.Database(dbName)
	users := mongoDb.Collection("users", options.Collection().
		SetWriteConcern(writeconcern.New(writeconcern.WMajority(), writeconcern.WTimeout(wTimeout))))
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Could not ensure unique index on users email")
	}

	log.Info().Str("database", dbName).Uint64("poolSize", poolSize).Dur("wtimeout", wTimeout).Msg("MongoDB connection established")

	m := NewMongoDBFromCollections(Collections{
		Movies:   mongoDb.Collection("movies"),
		Comments: mongoDb.Collection("comments"),
		CommentsReport: mongoDb.Collection("comments", options.Collection().
			SetReadConcern(readconcern.Majority())),
		Users:    users,
		Sessions: mongoDb.Collection("sessions"),
		DB:       mongoDb,
	}, poolSize, wTimeout)
	m.client = client
	return m, nil
}

// NewMongoDBFromCollections builds a MongoDB from already opened handles
func NewMongoDBFromCollections(c Collections, poolSize uint64, wTimeout time.Duration) *MongoDB {
	report := c.CommentsReport
	if report == nil {
		report = c.Comments
	}
	return &MongoDB{
		moviesColl:         c.Movies,
		commentsColl:       c.Comments,
		commentsReportColl: report,
		usersColl:          c.Users,
		sessionsColl:       c.Sessions,
		db:                 c.DB,
		poolSize:           poolSize,
		wTimeout:           wTimeout,
	}
}

// Close closes the MongoDB connection
func (m *MongoDB) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// GetConfiguration returns the client pool size and write timeout, and the role the connection is authenticated with
func (m *MongoDB) GetConfiguration(ctx context.Context) (*model.Configuration, error) {
	var status struct {
		AuthInfo struct {
			AuthenticatedUserRoles []model.Role `bson:"authenticatedUserRoles"`
		} `bson:"authInfo"`
	}
	if err := m.db.RunCommand(ctx, bson.D{{Key: "connectionStatus", Value: 1}}).Decode(&status); err != nil {
		log.Error().Err(err).Msg("Unable to retrieve connection status")
		return nil, fmt.Errorf("error while retrieving connection status: %w", err)
	}

	conf := &model.Configuration{
		PoolSize: m.poolSize,
		WTimeout: m.wTimeout.Milliseconds(),
	}
	if roles := status.AuthInfo.AuthenticatedUserRoles; len(roles) > 0 {
		conf.AuthInfo = &roles[0]
	}
	return conf, nil
}

// decodeAll drains a cursor into a slice
func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)
	items := []T{}
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, cur.Err()
}
