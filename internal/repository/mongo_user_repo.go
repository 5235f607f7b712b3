package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

const usersCollection = "users"

// userDocument keeps the field names of the existing users collection.
type userDocument struct {
	ID            bson.ObjectID `bson:"_id"`
	Email         string        `bson:"email"`
	Password      string        `bson:"password"`
	Name          string        `bson:"name"`
	Role          string        `bson:"role"`
	LoginAttempts int           `bson:"loginAttempts"`
	Locked        bool          `bson:"locked"`
	CreatedAt     time.Time     `bson:"createdAt"`
}

func (d userDocument) toModel() model.User {
	role := model.Role(d.Role)
	if !role.Valid() {
		role = model.RoleUser
	}

	return model.User{
		ID:            d.ID.Hex(),
		Email:         d.Email,
		PasswordHash:  d.Password,
		Name:          d.Name,
		Role:          role,
		LoginAttempts: d.LoginAttempts,
		Locked:        d.Locked,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

type MongoUserRepository struct {
	users *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index that makes Create the
// authoritative duplicate check.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, "find user by email", bson.D{{Key: "email", Value: model.NormalizeEmail(email)}})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, model.ErrUserNotFound
	}
	return r.findOne(ctx, "find user by id", bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoUserRepository) Create(ctx context.Context, email string, passwordHash string, name string) (model.User, error) {
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Email:     model.NormalizeEmail(email),
		Password:  passwordHash,
		Name:      name,
		Role:      string(model.RoleUser),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, model.ErrDuplicateEmail
		}
		return model.User{}, storeError("create user", err)
	}

	return doc.toModel(), nil
}

func (r *MongoUserRepository) Save(ctx context.Context, user model.User) error {
	oid, err := bson.ObjectIDFromHex(user.ID)
	if err != nil {
		return model.ErrUserNotFound
	}

	res, err := r.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "password", Value: user.PasswordHash},
			{Key: "name", Value: user.Name},
			{Key: "role", Value: string(user.Role)},
			{Key: "loginAttempts", Value: user.LoginAttempts},
			{Key: "locked", Value: user.Locked},
		}}},
	)
	if err != nil {
		return storeError("save user", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) SetRole(ctx context.Context, id string, role model.Role) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrUserNotFound
	}

	res, err := r.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: string(role)}}}},
	)
	if err != nil {
		return storeError("set user role", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// RecordFailedLogin increments the counter and derives the lock flag in one
// pipeline update, so concurrent failures cannot lose an increment.
func (r *MongoUserRepository) RecordFailedLogin(ctx context.Context, id string, maxAttempts int) (model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, model.ErrUserNotFound
	}

	filter := bson.D{
		{Key: "_id", Value: oid},
		{Key: "locked", Value: bson.D{{Key: "$ne", Value: true}}},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "loginAttempts", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$loginAttempts", 0}}},
				1,
			}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "locked", Value: bson.D{{Key: "$gte", Value: bson.A{"$loginAttempts", maxAttempts}}}},
		}}},
	}

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either gone or already locked by a concurrent attempt.
		return r.FindByID(ctx, id)
	}
	if err != nil {
		return model.User{}, storeError("record failed login", err)
	}

	return doc.toModel(), nil
}

func (r *MongoUserRepository) ResetLoginAttempts(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrUserNotFound
	}

	res, err := r.users.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: "locked", Value: bson.D{{Key: "$ne", Value: true}}},
		},
		bson.D{{Key: "$set", Value: bson.D{{Key: "loginAttempts", Value: 0}}}},
	)
	if err != nil {
		return storeError("reset login attempts", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return model.ErrAccountLocked
	}
	return nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, storeError("list users", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode users", err)
	}

	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toModel())
	}
	return users, nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, op string, filter bson.D) (model.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError(op, err)
	}
	return doc.toModel(), nil
}
