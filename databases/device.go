package databases

// go generate: mockery --name DeviceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/glovebox-api/models"
)

const deviceName = "devices"

// DeviceDatabase contains the methods to use with the device database
type DeviceDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Device, error)
	FindOneAndUpdate(context.Context, interface{}, interface{}, ...*options.FindOneAndUpdateOptions) (*models.Device, error)
}

type deviceDatabase struct {
	db DatabaseHelper
}

// NewDeviceDatabase initializes a new instance of device database with the provided db connection
func NewDeviceDatabase(db DatabaseHelper) DeviceDatabase {
	return &deviceDatabase{
		db: db,
	}
}

func (dd *deviceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Device, error) {
	var devices []models.Device
	cur, err := dd.db.Collection(deviceName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&devices)
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func (dd *deviceDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.Device, error) {
	device := &models.Device{}
	err := dd.db.Collection(deviceName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(device)
	if err != nil {
		return nil, err
	}
	return device, nil
}
