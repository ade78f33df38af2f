package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/communityboard/board/internal/core/domain"
)

const (
	defaultCollection = "documents"
	// documentID is the _id of the single document holding all board state.
	documentID = "board"
)

// DocumentBackend stores the whole board document as one MongoDB document.
// ReplaceOne swaps it atomically, which gives readers the same
// all-or-nothing view the file backend gets from rename.
type DocumentBackend struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewDocumentBackend returns a backend using collection in db, or
// "documents" when collection is empty.
func NewDocumentBackend(db *mongo.Database, collection string) *DocumentBackend {
	if collection == "" {
		collection = defaultCollection
	}
	return &DocumentBackend{db: db, coll: db.Collection(collection)}
}

type mongoUser struct {
	ID           string `bson:"id"`
	Name         string `bson:"name"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"passwordHash"`
	Role         string `bson:"role"`
}

type mongoPost struct {
	ID        string    `bson:"id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	AuthorID  string    `bson:"authorId"`
	CreatedAt time.Time `bson:"createdAt"`
}

type mongoDocument struct {
	ID    string      `bson:"_id"`
	Users []mongoUser `bson:"users"`
	Posts []mongoPost `bson:"posts"`
}

func (b *DocumentBackend) Name() string { return "mongo" }

// Load fetches the board document. A missing document is (nil, nil).
func (b *DocumentBackend) Load(ctx context.Context) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDocument
	if err := b.coll.FindOne(ctx, bson.M{"_id": documentID}).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return fromMongo(md)
}

// Save replaces the board document, inserting it on first write.
func (b *DocumentBackend) Save(ctx context.Context, doc *domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	md := toMongo(doc)
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": documentID}, md, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Ping checks connectivity to the server.
func (b *DocumentBackend) Ping(ctx context.Context) error {
	return b.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func toMongo(doc *domain.Document) mongoDocument {
	md := mongoDocument{
		ID:    documentID,
		Users: make([]mongoUser, 0, len(doc.Users)),
		Posts: make([]mongoPost, 0, len(doc.Posts)),
	}
	for _, u := range doc.Users {
		md.Users = append(md.Users, mongoUser{
			ID:           u.ID,
			Name:         u.Name,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role.String(),
		})
	}
	for _, p := range doc.Posts {
		md.Posts = append(md.Posts, mongoPost{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			AuthorID:  p.AuthorID,
			CreatedAt: p.CreatedAt.UTC(),
		})
	}
	return md
}

func fromMongo(md mongoDocument) (*domain.Document, error) {
	doc := &domain.Document{
		Users: make([]domain.User, 0, len(md.Users)),
		Posts: make([]domain.Post, 0, len(md.Posts)),
	}
	for _, mu := range md.Users {
		role, err := domain.ParseRole(mu.Role)
		if err != nil {
			return nil, fmt.Errorf("decode user %s: %w", mu.ID, err)
		}
		doc.Users = append(doc.Users, domain.User{
			ID:           mu.ID,
			Name:         mu.Name,
			Username:     mu.Username,
			PasswordHash: mu.PasswordHash,
			Role:         role,
		})
	}
	for _, mp := range md.Posts {
		doc.Posts = append(doc.Posts, domain.Post{
			ID:        mp.ID,
			Title:     mp.Title,
			Content:   mp.Content,
			AuthorID:  mp.AuthorID,
			CreatedAt: mp.CreatedAt.UTC(),
		})
	}
	return doc, nil
}
