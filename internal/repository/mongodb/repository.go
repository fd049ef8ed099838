package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/montwater/internal/domain/models"
)

const reportCollection = "stock_reports"

// ReportRepository archives end-of-day stock reports in MongoDB.
type ReportRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewReportRepository connects to MongoDB and verifies the connection.
func NewReportRepository(ctx context.Context, uri string, dbName string) (*ReportRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &ReportRepository{
		client:   client,
		dbName:   dbName,
		collName: reportCollection,
	}, nil
}

// SaveDailyReport stores the report, replacing an earlier one for the same day.
func (r *ReportRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	filter := bson.M{"date": report.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, filter, report, opts); err != nil {
		return fmt.Errorf("failed to upsert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *ReportRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
