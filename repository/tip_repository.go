package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AlexObbs/shopp/models"
)

// TipRepository persists tip records. Tips are append-only: a record is
// written once per payment-intent id and never mutated.
type TipRepository interface {
	// Claim atomically inserts the record unless one already exists for the
	// same payment-intent id. It returns true and the stored record when
	// this caller won the insert, or false and the pre-existing record when
	// another caller got there first.
	Claim(ctx context.Context, rec *models.TipRecord) (bool, *models.TipRecord, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.TipRecord, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoTipRepo struct {
	coll *mongo.Collection
}

// NewMongoTipRepo creates a TipRepository backed by the "tips" collection.
func NewMongoTipRepo(db *mongo.Database) TipRepository {
	return &mongoTipRepo{coll: db.Collection("tips")}
}

func (r *mongoTipRepo) EnsureIndexes(ctx context.Context) error {
	unique := true
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "payment_intent_id", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	return err
}

// Claim uses an upsert with $setOnInsert keyed by payment_intent_id so that
// exactly one of a racing verify-poll and webhook performs the insert.
// First writer wins; the loser reads back the winner's record. Two upserts
// racing on the same key are not mutually atomic in MongoDB: the loser's
// upsert can fail with a duplicate-key error instead of matching, which
// means the winner's record is already there.
func (r *mongoTipRepo) Claim(ctx context.Context, rec *models.TipRecord) (bool, *models.TipRecord, error) {
	filter := bson.M{"payment_intent_id": rec.PaymentIntentID}
	update := bson.M{"$setOnInsert": rec}

	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	switch {
	case err != nil && !mongo.IsDuplicateKeyError(err):
		return false, nil, err
	case err == nil && res.UpsertedCount == 1:
		return true, rec, nil
	}

	existing, err := r.FindByPaymentIntentID(ctx, rec.PaymentIntentID)
	if err != nil {
		return false, nil, err
	}
	return false, existing, nil
}

func (r *mongoTipRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.TipRecord, error) {
	var rec models.TipRecord
	err := r.coll.FindOne(ctx, bson.M{"payment_intent_id": paymentIntentID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
