package repomanager

import (
	"context"

	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/documents"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoRepositoryManager vends MongoDB-backed repositories over one client.
type MongoRepositoryManager struct {
	client    *mongo.Client
	accounts  *accounts.MongoRepository
	documents *documents.MongoRepository
}

// mongoConnect is a seam for testing mongo.Connect.
var mongoConnect = func(opts ...*options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(opts...)
}

// OpenMongo connects to uri and binds the repositories to database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongoConnect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(database)
	return &MongoRepositoryManager{
		client:    client,
		accounts:  accounts.NewMongoRepository(db),
		documents: documents.NewMongoRepository(db),
	}, nil
}

func (m *MongoRepositoryManager) Accounts() accounts.Repository   { return m.accounts }
func (m *MongoRepositoryManager) Documents() documents.Repository { return m.documents }

// Migrate creates the collection indexes.
func (m *MongoRepositoryManager) Migrate(ctx context.Context) error {
	if err := m.accounts.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.documents.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
