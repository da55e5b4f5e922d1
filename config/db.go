// config/db.go
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes connection to MongoDB.
func ConnectDB(ctx context.Context, cfg *Config, log logrus.FieldLogger) (*mongo.Client, error) {
	log.Infof("Connecting to MongoDB at: %s", maskMongoURI(cfg.Mongo.URI))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info("Connected to MongoDB")
	return client, nil
}

// maskMongoURI hides the password in a MongoDB URI for logging
func maskMongoURI(uri string) string {
	if !strings.Contains(uri, "@") {
		return uri
	}
	schemeEnd := strings.Index(uri, "://")
	at := strings.LastIndex(uri, "@")
	if schemeEnd < 0 || at < schemeEnd {
		return uri
	}
	creds := uri[schemeEnd+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":****"
	}
	return uri[:schemeEnd+3] + creds + uri[at:]
}
