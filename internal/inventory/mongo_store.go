package inventory

import (
	"context"
	"errors"
	"fmt"

	pkgmongo "github.com/angelmondragon/inventory/pkg/mongo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	categoriesCollection = "categories"
	itemsCollection      = "items"
)

type categoryDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
}

type itemDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	Price       primitive.Decimal128 `bson:"price"`
	Stock       int64                `bson:"stock"`
	Category    []primitive.ObjectID `bson:"category"`
}

// MongoStore keeps the inventory as two MongoDB collections. Items embed
// their category ids as an ObjectID array.
type MongoStore struct {
	client     *pkgmongo.Client
	categories *mongo.Collection
	items      *mongo.Collection
}

func NewMongoStore(client *pkgmongo.Client) (*MongoStore, error) {
	if client == nil {
		return nil, fmt.Errorf("mongo client required")
	}
	return &MongoStore{
		client:     client,
		categories: client.Collection(categoriesCollection),
		items:      client.Collection(itemsCollection),
	}, nil
}

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

func (s *MongoStore) ListCategories(ctx context.Context) ([]Category, error) {
	cur, err := s.categories.Find(ctx, bson.D{}, byName)
	if err != nil {
		return nil, err
	}
	var docs []categoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.category())
	}
	return out, nil
}

func (s *MongoStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc categoryDocument
	if err := s.categories.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c := doc.category()
	return &c, nil
}

func (s *MongoStore) InsertCategory(ctx context.Context, category *Category) error {
	doc := categoryDocument{ID: primitive.NewObjectID(), Name: category.Name, Description: category.Description}
	if _, err := s.categories.InsertOne(ctx, doc); err != nil {
		return err
	}
	category.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) DeleteCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.categories.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountCategories(ctx context.Context) (int64, error) {
	return s.categories.CountDocuments(ctx, bson.D{})
}

func (s *MongoStore) ListItems(ctx context.Context) ([]Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "description", Value: 1}, {Key: "category", Value: 1}})
	cur, err := s.items.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	byID, err := s.resolve(ctx, docs...)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(docs))
	for _, doc := range docs {
		item := Item{ID: doc.ID.Hex(), Name: doc.Name, Description: doc.Description, CategoryIDs: hexIDs(doc.Category)}
		item.Categories = populate(item.CategoryIDs, byID)
		out = append(out, item)
	}
	return out, nil
}

func (s *MongoStore) GetItem(ctx context.Context, id string) (*Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc itemDocument
	if err := s.items.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	item, err := doc.item()
	if err != nil {
		return nil, err
	}
	byID, err := s.resolve(ctx, doc)
	if err != nil {
		return nil, err
	}
	item.Categories = populate(item.CategoryIDs, byID)
	return &item, nil
}

func (s *MongoStore) ItemsByCategory(ctx context.Context, categoryID string) ([]Item, error) {
	oid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return []Item{}, nil
	}
	filter := bson.D{{Key: "category", Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$eq", Value: oid}}}}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "description", Value: 1}})
	cur, err := s.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Item{ID: doc.ID.Hex(), Name: doc.Name, Description: doc.Description})
	}
	return out, nil
}

func (s *MongoStore) InsertItem(ctx context.Context, item *Item) error {
	doc, err := toItemDocument(*item)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := s.items.InsertOne(ctx, doc); err != nil {
		return err
	}
	item.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) ReplaceItem(ctx context.Context, item *Item) error {
	oid, err := primitive.ObjectIDFromHex(item.ID)
	if err != nil {
		return ErrNotFound
	}
	doc, err := toItemDocument(*item)
	if err != nil {
		return err
	}
	doc.ID = oid
	res, err := s.items.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteItem(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.items.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountItems(ctx context.Context) (int64, error) {
	return s.items.CountDocuments(ctx, bson.D{})
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// resolve loads every category the given items reference with one $in query.
func (s *MongoStore) resolve(ctx context.Context, docs ...itemDocument) (map[string]Category, error) {
	seen := map[primitive.ObjectID]struct{}{}
	ids := bson.A{}
	for _, doc := range docs {
		for _, oid := range doc.Category {
			if _, ok := seen[oid]; ok {
				continue
			}
			seen[oid] = struct{}{}
			ids = append(ids, oid)
		}
	}

	out := map[string]Category{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.categories.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}
	var found []categoryDocument
	if err := cur.All(ctx, &found); err != nil {
		return nil, err
	}
	for _, doc := range found {
		out[doc.ID.Hex()] = doc.category()
	}
	return out, nil
}

func (d categoryDocument) category() Category {
	return Category{ID: d.ID.Hex(), Name: d.Name, Description: d.Description}
}

func (d itemDocument) item() (Item, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return Item{}, fmt.Errorf("decoding price of item %s: %w", d.ID.Hex(), err)
	}
	return Item{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Stock:       int(d.Stock),
		CategoryIDs: hexIDs(d.Category),
	}, nil
}

func toItemDocument(item Item) (itemDocument, error) {
	price, err := primitive.ParseDecimal128(item.Price.String())
	if err != nil {
		return itemDocument{}, fmt.Errorf("encoding price: %w", err)
	}
	refs := make([]primitive.ObjectID, 0, len(item.CategoryIDs))
	for _, id := range item.CategoryIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return itemDocument{}, fmt.Errorf("%w: %q", ErrInvalidReference, id)
		}
		refs = append(refs, oid)
	}
	return itemDocument{
		Name:        item.Name,
		Description: item.Description,
		Price:       price,
		Stock:       int64(item.Stock),
		Category:    refs,
	}, nil
}

func hexIDs(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}
