package mongo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nestmart/shop-api/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		col:      db.Collection(collectionProducts),
		counters: db.Collection(collectionCounters),
	}
}

type productDoc struct {
	ID        int64                `bson:"_id"`
	Title     string               `bson:"title"`
	Price     primitive.Decimal128 `bson:"price"`
	IsActive  bool                 `bson:"is_active"`
	CreatorID int64                `bson:"creator_id"`
	CreatedAt int64                `bson:"created_at"`
	Creator   *userDoc             `bson:"creator,omitempty"`
}

func (d productDoc) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("product %d price: %w", d.ID, err)
	}
	p := &domain.Product{
		ID:        d.ID,
		Title:     d.Title,
		Price:     price,
		IsActive:  d.IsActive,
		CreatorID: d.CreatorID,
		CreatedAt: unixToTime(d.CreatedAt),
	}
	if d.Creator != nil {
		view := d.Creator.toDomain().View()
		p.Creator = &view
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return nil, fmt.Errorf("product price: %w", err)
	}
	id, err := nextSequence(ctx, r.counters, collectionProducts)
	if err != nil {
		return nil, err
	}

	doc := productDoc{
		ID:        id,
		Title:     p.Title,
		Price:     price,
		IsActive:  p.IsActive,
		CreatorID: p.CreatorID,
		CreatedAt: p.CreatedAt.Unix(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return doc.toDomain()
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := r.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return products[0], nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.aggregate(ctx, bson.M{})
}

// aggregate joins matching products with their creator. A deleted creator
// leaves Creator nil.
func (r *ProductRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "creator_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "creator"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$creator"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	out := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
