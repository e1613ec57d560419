package mongodb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const envconfigPrefix = "MONGODB"

// config represents common configuration options for a MongoDB connection
type config struct {
	Host       string `envconfig:"HOST" required:"true"`
	Port       int    `envconfig:"PORT" default:"27017"`
	Database   string `envconfig:"DATABASE" required:"true"`
	ReplicaSet string `envconfig:"REPLICA_SET"`
	Username   string `envconfig:"USERNAME" required:"true"`
	Password   string `envconfig:"PASSWORD" required:"true"`
	Collection string `envconfig:"COLLECTION" default:"sessions"`
}

// connectionString builds a connection string from environment variables.
// MONGODB_CONNECTION_STRING and MONGODB_DATABASE, when both set, take
// precedence over the individual settings.
func connectionString() (string, string, string, error) {
	collection := os.Getenv("MONGODB_COLLECTION")
	if collection == "" {
		collection = "sessions"
	}
	if connStr, database :=
		os.Getenv("MONGODB_CONNECTION_STRING"),
		os.Getenv("MONGODB_DATABASE"); connStr != "" && database != "" {
		return connStr, database, collection, nil
	}
	c := config{}
	if err := envconfig.Process(envconfigPrefix, &c); err != nil {
		return "", "", "", errors.Wrap(
			err,
			"error getting mongo configuration from environment",
		)
	}
	connStr := fmt.Sprintf(
		"mongodb://%s:%s@%s:%d/%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
	if c.ReplicaSet != "" {
		connStr = fmt.Sprintf("%s?replicaSet=%s", connStr, c.ReplicaSet)
	}
	return connStr, c.Database, c.Collection, nil
}

// Collection returns the collection specified by environment variables.
func Collection(ctx context.Context) (*mongo.Collection, error) {
	connStr, database, collection, err := connectionString()
	if err != nil {
		return nil, err
	}
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()
	// This client's settings favor consistency over speed
	client, err := mongo.Connect(
		connectCtx,
		options.Client().ApplyURI(connStr).SetWriteConcern(
			writeconcern.New(writeconcern.WMajority()),
		).SetReadConcern(readconcern.Majority()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to mongo")
	}
	return client.Database(database).Collection(collection), nil
}
