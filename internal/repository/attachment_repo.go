package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Attachment is one uploaded image kept in the local blob store. Used when
// no cloud drive is configured; the server then serves the bytes back from
// its own /v1/files endpoint.
type Attachment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Filename   string             `bson:"filename"`
	MIME       string             `bson:"mime"`
	Data       []byte             `bson:"data"`
	UploadedAt time.Time          `bson:"uploadedAt"`
}

type AttachmentRepo interface {
	Save(ctx context.Context, filename, mime string, data []byte) (string, error)
	Get(ctx context.Context, id string) (*Attachment, error)
}

type attachmentRepo struct {
	collection *mongo.Collection
}

func NewAttachmentRepo(db *mongo.Database) AttachmentRepo {
	return &attachmentRepo{collection: db.Collection("attachments")}
}

func (r *attachmentRepo) Save(ctx context.Context, filename, mime string, data []byte) (string, error) {
	res, err := r.collection.InsertOne(ctx, Attachment{
		Filename:   filename,
		MIME:       mime,
		Data:       data,
		UploadedAt: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("insert attachment: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *attachmentRepo) Get(ctx context.Context, id string) (*Attachment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var att Attachment
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&att)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attachment: %w", err)
	}
	return &att, nil
}
