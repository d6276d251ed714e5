package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	ecbrates "github.com/malusev998/ecb-rates"
)

type mongoStorage struct {
	ctx        context.Context
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStorage(c MongoDBConfig) (ecbrates.Storage, error) {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.ConnectionString))

	if err != nil {
		return nil, err
	}

	s := mongoStorage{
		ctx:        ctx,
		client:     client,
		collection: client.Database(c.Database).Collection(c.Collection),
	}

	if c.Migrate {
		if err := s.Migrate(); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return s, nil
}

func (m mongoStorage) Store(ctx context.Context, rates []ecbrates.Rate) ([]ecbrates.RateWithID, error) {
	if len(rates) == 0 {
		return []ecbrates.RateWithID{}, nil
	}

	if ctx == nil {
		ctx = m.ctx
	}

	documents := make([]interface{}, 0, len(rates))

	for _, rate := range rates {
		value, err := primitive.ParseDecimal128(rate.Value.String())

		if err != nil {
			return nil, err
		}

		documents = append(documents, bson.M{
			"currency":  currencyKey(rate),
			"from":      rate.From,
			"to":        rate.To,
			"provider":  string(rate.Provider),
			"rate":      value,
			"date":      primitive.NewDateTimeFromTime(rate.Date),
			"createdAt": primitive.NewDateTimeFromTime(rate.CreatedAt),
		})
	}

	result, err := m.collection.InsertMany(ctx, documents)

	if err != nil {
		return nil, err
	}

	ids := make([]ecbrates.RateWithID, 0, len(rates))

	for i, id := range result.InsertedIDs {
		ids = append(ids, ecbrates.RateWithID{Rate: rates[i], ID: id})
	}

	return ids, nil
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}

func (m mongoStorage) Migrate() error {
	_, err := m.collection.Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "currency", Value: 1},
			{Key: "date", Value: 1},
		},
	})

	return err
}

func (m mongoStorage) Drop() error {
	return m.collection.Drop(m.ctx)
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(m.ctx)
}
