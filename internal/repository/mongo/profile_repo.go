package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devconnector/internal/models"
	"devconnector/internal/repository"
)

// profileDoc is a profile joined with its owner by $lookup.
type profileDoc struct {
	models.Profile `bson:",inline"`
	Owner          []models.UserRef `bson:"owner"`
}

func (d *profileDoc) toModel() models.Profile {
	p := d.Profile
	if len(d.Owner) > 0 {
		owner := d.Owner[0]
		p.User = &owner
	}
	p.Normalize()
	return p
}

type profileRepo struct {
	col *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) repository.ProfileRepository {
	return &profileRepo{col: db.Collection(profilesCollection)}
}

func profilePipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "owner.email", Value: 0},
			{Key: "owner.password", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
	}
}

// upsertProfileUpdate sets only the optional fields present in req. Fields
// that exist only on creation go through $setOnInsert.
func upsertProfileUpdate(req repository.UpsertProfileRequest, now time.Time) bson.M {
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}

	set := bson.M{
		"status": req.Status,
		"skills": skills,
		"social": req.Social,
	}
	optional := map[string]*string{
		"company":        req.Company,
		"website":        req.Website,
		"location":       req.Location,
		"bio":            req.Bio,
		"githubusername": req.GitHubUsername,
	}
	for field, v := range optional {
		if v != nil {
			set[field] = *v
		}
	}

	return bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":        req.ID,
			"date":       now,
			"experience": bson.A{},
			"education":  bson.A{},
		},
	}
}

func prependUpdate(field string, entry any) bson.M {
	return bson.M{"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}}}
}

func (r *profileRepo) Upsert(ctx context.Context, req repository.UpsertProfileRequest) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	err := r.col.FindOneAndUpdate(ctx, bson.M{"user": req.UserID}, upsertProfileUpdate(req, time.Now().UTC()), opts).Err()
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return r.GetByUserID(ctx, req.UserID)
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	profiles, err := r.aggregate(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, repository.ErrNotFound
	}
	return &profiles[0], nil
}

func (r *profileRepo) List(ctx context.Context) ([]models.Profile, error) {
	return r.aggregate(ctx, bson.M{})
}

func (r *profileRepo) aggregate(ctx context.Context, match bson.M) ([]models.Profile, error) {
	cur, err := r.col.Aggregate(ctx, profilePipeline(match))
	if err != nil {
		return nil, fmt.Errorf("aggregate profiles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	profiles := make([]models.Profile, 0, len(docs))
	for i := range docs {
		profiles = append(profiles, docs[i].toModel())
	}
	return profiles, nil
}

func (r *profileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (r *profileRepo) PushExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return r.push(ctx, userID, "experience", exp)
}

func (r *profileRepo) PullExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return r.pull(ctx, userID, "experience", expID)
}

func (r *profileRepo) PushEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return r.push(ctx, userID, "education", edu)
}

func (r *profileRepo) PullEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return r.pull(ctx, userID, "education", eduID)
}

func (r *profileRepo) push(ctx context.Context, userID, field string, entry any) (*models.Profile, error) {
	err := r.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, prependUpdate(field, entry)).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("push %s: %w", field, err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepo) pull(ctx context.Context, userID, field, entryID string) (*models.Profile, error) {
	filter := bson.M{"user": userID, field + "._id": entryID}
	update := bson.M{"$pull": bson.M{field: bson.M{"_id": entryID}}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", field, err)
	}

	if res.MatchedCount == 0 {
		found, err := exists(ctx, r.col, bson.M{"user": userID})
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, repository.ErrNotFound
		}
		return nil, repository.ErrEntryNotFound
	}

	return r.GetByUserID(ctx, userID)
}
