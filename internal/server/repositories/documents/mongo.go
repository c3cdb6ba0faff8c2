package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "documents"

type documentDoc struct {
	ID               bson.ObjectID `bson:"_id,omitempty"`
	Filename         string        `bson:"filename"`
	OriginalName     string        `bson:"originalName"`
	FileType         string        `bson:"fileType"`
	FileSize         int64         `bson:"fileSize"`
	Content          string        `bson:"content,omitempty"`
	ChunkCount       int           `bson:"chunkCount"`
	ExternalIndexRef string        `bson:"externalIndexRef,omitempty"`
	ArchiveKey       string        `bson:"archiveKey,omitempty"`
	UploadedBy       string        `bson:"uploadedBy"`
	UploadedAt       time.Time     `bson:"uploadedAt"`
	CreatedAt        time.Time     `bson:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt"`
}

func toDocumentDoc(d *models.Document) documentDoc {
	doc := documentDoc{
		Filename:         d.Filename,
		OriginalName:     d.OriginalName,
		FileType:         string(d.FileType),
		FileSize:         d.FileSize,
		Content:          d.Content,
		ChunkCount:       d.ChunkCount,
		ExternalIndexRef: d.ExternalIndexRef,
		ArchiveKey:       d.ArchiveKey,
		UploadedBy:       d.UploadedBy,
		UploadedAt:       d.UploadedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if id, err := bson.ObjectIDFromHex(d.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func (d documentDoc) model() *models.Document {
	return &models.Document{
		ID:               d.ID.Hex(),
		Filename:         d.Filename,
		OriginalName:     d.OriginalName,
		FileType:         models.FileType(d.FileType),
		FileSize:         d.FileSize,
		Content:          d.Content,
		ChunkCount:       d.ChunkCount,
		ExternalIndexRef: d.ExternalIndexRef,
		ArchiveKey:       d.ArchiveKey,
		UploadedBy:       d.UploadedBy,
		UploadedAt:       d.UploadedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName), now: time.Now}
}

// EnsureIndexes creates the uploadedAt index used by List.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uploadedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	d := toDocumentDoc(doc)
	d.ID = bson.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	doc.ID = d.ID.Hex()
	return doc, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "uploadedAt", Value: -1}}).
		SetProjection(bson.M{"content": 0})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	var docs []documentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	result := make([]*models.Document, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.model())
	}
	return result, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var d documentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return d.model(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
