package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AlexObbs/shopp/models"
)

// guideNameFields is the ordered list of candidate name fields checked by
// exact-match and case-insensitive lookups.
var guideNameFields = []string{"name", "fullName", "displayName"}

// GuideRepository reads guide documents for best-effort identity resolution.
type GuideRepository interface {
	// FindByID returns the guide with the given id, or nil when absent.
	FindByID(ctx context.Context, id string) (*models.Guide, error)
	// FindByExactName checks each candidate name field in order and returns
	// the first match, or nil when nothing matches.
	FindByExactName(ctx context.Context, name string) (*models.Guide, error)
	// ScanByNameFold compares the candidate fields case-insensitively over a
	// capped set of documents. The cap keeps the scan bounded; ambiguity
	// resolves to the first match in query order.
	ScanByNameFold(ctx context.Context, name string, limit int64) (*models.Guide, error)
}

type mongoGuideRepo struct {
	coll *mongo.Collection
}

// NewMongoGuideRepo creates a GuideRepository backed by the "guides" collection.
func NewMongoGuideRepo(db *mongo.Database) GuideRepository {
	return &mongoGuideRepo{coll: db.Collection("guides")}
}

func (r *mongoGuideRepo) FindByID(ctx context.Context, id string) (*models.Guide, error) {
	var g models.Guide
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g.Exists = true
	return &g, nil
}

func (r *mongoGuideRepo) FindByExactName(ctx context.Context, name string) (*models.Guide, error) {
	for _, field := range guideNameFields {
		var g models.Guide
		err := r.coll.FindOne(ctx, bson.M{field: name}).Decode(&g)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}
		g.Exists = true
		return &g, nil
	}
	return nil, nil
}

func (r *mongoGuideRepo) ScanByNameFold(ctx context.Context, name string, limit int64) (*models.Guide, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var g models.Guide
		if err := cursor.Decode(&g); err != nil {
			return nil, err
		}
		for _, candidate := range []string{g.Name, g.FullName, g.DisplayName} {
			if candidate != "" && strings.EqualFold(candidate, name) {
				g.Exists = true
				return &g, nil
			}
		}
	}
	return nil, cursor.Err()
}
