package databases

// go generate: mockery --name ReminderDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/glovebox-api/models"
)

const reminderName = "reminders"

// ReminderDatabase contains the methods to use with the reminder database
type ReminderDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Reminder, error)
	InsertOne(ctx context.Context, reminder models.Reminder) (InsertOneResultHelper, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.Reminder, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type reminderDatabase struct {
	db DatabaseHelper
}

// NewReminderDatabase initializes a new instance of reminder database with the provided db connection
func NewReminderDatabase(db DatabaseHelper) ReminderDatabase {
	return &reminderDatabase{
		db: db,
	}
}

func (r *reminderDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Reminder, error) {
	var reminders []models.Reminder
	cur, err := r.db.Collection(reminderName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&reminders)
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *reminderDatabase) InsertOne(ctx context.Context, reminder models.Reminder) (InsertOneResultHelper, error) {
	return r.db.Collection(reminderName).InsertOne(ctx, reminder)
}

func (r *reminderDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	err := r.db.Collection(reminderName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(reminder)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *reminderDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return r.db.Collection(reminderName).DeleteOne(ctx, filter, opts...)
}
