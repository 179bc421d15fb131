package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

const (
	usersCollection    = "admin_users"
	countersCollection = "counters"
	usersCounterID     = "admin_users"
)

// UserRepository persists administrative accounts in MongoDB. Numeric ids
// come from an atomic counter document so they stay strictly increasing and
// are never reused, matching the in-memory store's contract.
type UserRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection

	// currentUsername backs GetCurrent until real session binding exists.
	currentUsername string
}

func NewUserRepository(db *mongo.Database, currentUsername string) *UserRepository {
	return &UserRepository{
		coll:            db.Collection(usersCollection),
		counters:        db.Collection(countersCollection),
		currentUsername: currentUsername,
	}
}

type mongoUser struct {
	ID           int64    `bson:"_id"`
	Username     string   `bson:"username"`
	FullName     string   `bson:"full_name,omitempty"`
	Role         string   `bson:"role"`
	Permissions  []string `bson:"permissions"`
	PasswordHash string   `bson:"password_hash"`
}

func (mu mongoUser) toDomain() *domain.User {
	perms := make([]domain.Permission, len(mu.Permissions))
	for i, p := range mu.Permissions {
		perms[i] = domain.Permission(p)
	}
	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		FullName:     mu.FullName,
		Role:         mu.Role,
		Permissions:  perms,
		PasswordHash: mu.PasswordHash,
	}
}

// nextID atomically increments and returns the user id counter.
func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return doc.Seq, nil
}

func (r *UserRepository) GetCurrent(ctx context.Context) (*domain.User, error) {
	return r.FindByUsername(ctx, r.currentUsername)
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, mu.toDomain())
	}
	return out, cur.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Add(ctx context.Context, input ports.NewUser) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	perms := make([]string, len(input.Permissions))
	for i, p := range input.Permissions {
		perms[i] = string(p)
	}

	doc := mongoUser{
		ID:           id,
		Username:     input.Username,
		FullName:     input.FullName,
		Role:         input.Role,
		Permissions:  perms,
		PasswordHash: input.PasswordHash,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		// requires a unique index on username
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, update ports.UserUpdate) (*domain.User, error) {
	set := bson.M{}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.FullName != nil {
		set["full_name"] = *update.FullName
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}
	if update.Permissions != nil {
		perms := make([]string, len(*update.Permissions))
		for i, p := range *update.Permissions {
			perms[i] = string(p)
		}
		set["permissions"] = perms
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	var mu mongoUser
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password_hash": hash}})
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username index the duplicate checks rely
// on. Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure username index: %w", err)
	}
	return nil
}
