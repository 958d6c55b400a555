package repository

import (
	"context"
	"fmt"
	"time"

	"todo-app/src/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// todoDocument is the storage representation of a todo. The primary key
// lives in _id and is mapped to the wire-level string id at this
// boundary only; nothing above this package sees an ObjectID.
type todoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	Priority    string             `bson:"priority"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// TodoRepository implements domain.TodoRepository on a MongoDB collection
type TodoRepository struct {
	collection *mongo.Collection
	logger     *logrus.Logger
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(collection *mongo.Collection, logger *logrus.Logger) domain.TodoRepository {
	return &TodoRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create inserts a new todo. The store assigns _id and both timestamps;
// completed and priority defaults are already resolved by the caller.
func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	now := time.Now().UTC()
	doc := todoDocument{
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    todo.Priority.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateKey
		}
		r.logger.WithError(err).Error("Todoの作成に失敗")
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	doc.ID = result.InsertedID.(primitive.ObjectID)
	r.logger.WithField("todo_id", doc.ID.Hex()).Info("Todoを作成しました")

	created := toDomain(doc)
	return &created, nil
}

// GetByID retrieves a todo by its hex id
func (r *TodoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}

	var doc todoDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTodoNotFound
		}
		r.logger.WithError(err).WithField("todo_id", id).Error("Todoの取得に失敗")
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	todo := toDomain(doc)
	return &todo, nil
}

// List executes a filtered, sorted, paginated find together with a count
// of all records matching the filter. The two queries are independent
// and run concurrently; if either fails the whole call fails.
func (r *TodoRepository) List(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, int, error) {
	query := buildQuery(filter)

	type countResult struct {
		total int64
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		total, err := r.collection.CountDocuments(ctx, query)
		countCh <- countResult{total: total, err: err}
	}()

	findOpts := options.Find().
		SetSort(sortDocument(filter)).
		SetSkip(int64(filter.Skip())).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, findOpts)
	if err != nil {
		<-countCh
		r.logger.WithError(err).Error("Todoリストの取得に失敗")
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []todoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		<-countCh
		r.logger.WithError(err).Error("Todoリストのデコードに失敗")
		return nil, 0, fmt.Errorf("failed to decode todos: %w", err)
	}

	count := <-countCh
	if count.err != nil {
		r.logger.WithError(count.err).Error("Todo件数の取得に失敗")
		return nil, 0, fmt.Errorf("failed to count todos: %w", count.err)
	}

	todos := make([]domain.Todo, len(docs))
	for i, doc := range docs {
		todos[i] = toDomain(doc)
	}

	return todos, int(count.total), nil
}

// Update applies a partial $set to an existing todo and returns the
// post-update record. updatedAt is refreshed on every call.
func (r *TodoRepository) Update(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Completed != nil {
		set["completed"] = *update.Completed
	}
	if update.Priority != nil {
		set["priority"] = update.Priority.String()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc todoDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTodoNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateKey
		}
		r.logger.WithError(err).WithField("todo_id", id).Error("Todoの更新に失敗")
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	r.logger.WithField("todo_id", id).Info("Todoを更新しました")

	todo := toDomain(doc)
	return &todo, nil
}

// Delete removes a todo permanently (hard delete, no tombstone)
func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTodoNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		r.logger.WithError(err).WithField("todo_id", id).Error("Todoの削除に失敗")
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrTodoNotFound
	}

	r.logger.WithField("todo_id", id).Info("Todoを削除しました")
	return nil
}

// buildQuery translates the domain filter into a native query
// document. Absent predicates are omitted entirely, so a status=all
// query carries no completed key at all.
func buildQuery(filter domain.TodoFilter) bson.M {
	query := bson.M{}

	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority.String()
	}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	return query
}

// sortDocument builds the native sort document. A single-field sort only;
// ties keep store-native order.
func sortDocument(filter domain.TodoFilter) bson.D {
	direction := -1
	if filter.SortOrder == domain.SortAsc {
		direction = 1
	}
	return bson.D{{Key: filter.SortBy.String(), Value: direction}}
}

// toDomain maps the storage representation to the wire representation.
func toDomain(doc todoDocument) domain.Todo {
	return domain.Todo{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Completed:   doc.Completed,
		Priority:    domain.Priority(doc.Priority),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
