package scheduler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kyokomi/emoji"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linesmerrill/glovebox-api/api"
	"github.com/linesmerrill/glovebox-api/databases"
	"github.com/linesmerrill/glovebox-api/models"
	"github.com/linesmerrill/glovebox-api/push"
)

// windowDays is how far ahead expirations are scanned
const windowDays = 30

// notifyDays are the only days-remaining values that trigger a notification
var notifyDays = map[int]bool{30: true, 15: true, 7: true}

// Summary reports what one expiration scan did
type Summary struct {
	Scanned  int `json:"scanned"`
	Matched  int `json:"matched"`
	Notified int `json:"notified"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// ExpirationNotifier pushes a reminder to the owner's devices when one of
// their documents expires in exactly 30, 15 or 7 days
type ExpirationNotifier struct {
	Documents databases.DocumentDatabase
	Vehicles  databases.VehicleDatabase
	Devices   databases.DeviceDatabase
	Sender    push.Sender
	Location  *time.Location

	now func() time.Time
}

// NewExpirationNotifier wires the notifier. A nil loc means UTC.
func NewExpirationNotifier(docs databases.DocumentDatabase, vehicles databases.VehicleDatabase, devices databases.DeviceDatabase, sender push.Sender, loc *time.Location) *ExpirationNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpirationNotifier{
		Documents: docs,
		Vehicles:  vehicles,
		Devices:   devices,
		Sender:    sender,
		Location:  loc,
		now:       time.Now,
	}
}

// Run does one sequential pass over the documents expiring in the next 30
// days. Only a failed document query aborts the run; every other failure is
// logged and the document skipped.
func (n *ExpirationNotifier) Run(ctx context.Context) (*Summary, error) {
	today := calendarDay(n.now(), n.Location)
	end := today.AddDate(0, 0, windowDays)

	filter := bson.M{"expiry_date": bson.M{"$gte": today, "$lte": end}}
	documents, err := n.Documents.Find(ctx, filter)
	if err != nil {
		api.RecordNotifierRun(false)
		return nil, fmt.Errorf("failed to query expiring documents: %w", err)
	}

	summary := &Summary{Scanned: len(documents)}
	zap.S().Infow("scanning expiring documents",
		"today", today.Format("2006-01-02"),
		"count", len(documents))

	for _, doc := range documents {
		if doc.ExpiryDate == nil {
			continue
		}
		days := daysUntil(today, *doc.ExpiryDate)
		if !notifyDays[days] {
			continue
		}
		summary.Matched++

		switch n.notify(ctx, doc, days) {
		case outcomeSent:
			summary.Notified++
		case outcomeSkipped:
			summary.Skipped++
		case outcomeFailed:
			summary.Failed++
		}
	}

	api.RecordNotifierRun(true)
	zap.S().Infow("expiration scan finished",
		"scanned", summary.Scanned,
		"matched", summary.Matched,
		"notified", summary.Notified,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (n *ExpirationNotifier) notify(ctx context.Context, doc models.Document, days int) outcome {
	log := zap.S().With("documentId", doc.ID.Hex(), "vehicleId", doc.VehicleID.Hex(), "daysLeft", days)

	vehicle, err := n.Vehicles.FindOne(ctx, bson.M{"_id": doc.VehicleID})
	if err != nil {
		log.Warnw("could not resolve vehicle owner, skipping", "error", err)
		return outcomeSkipped
	}

	devices, err := n.Devices.Find(ctx, bson.M{"user_id": vehicle.UserID})
	if err != nil {
		log.Warnw("could not load devices, skipping", "userId", vehicle.UserID.Hex(), "error", err)
		return outcomeSkipped
	}
	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		if d.Token != "" {
			tokens = append(tokens, d.Token)
		}
	}
	if len(tokens) == 0 {
		log.Debugw("owner has no devices", "userId", vehicle.UserID.Hex())
		return outcomeSkipped
	}

	res, err := n.Sender.SendMulticast(ctx, tokens, expiryNotification(doc, days))
	if err != nil {
		api.RecordNotification(days, false)
		log.Errorw("failed to send notification", "tokens", len(tokens), "error", err)
		return outcomeFailed
	}
	api.RecordNotification(days, true)
	log.Infow("sent expiration notification",
		"successCount", res.SuccessCount,
		"failureCount", res.FailureCount)
	return outcomeSent
}

func expiryNotification(doc models.Document, days int) push.Notification {
	docType := doc.DocumentType
	if docType == "" {
		docType = "document"
	}
	return push.Notification{
		Title: emoji.Sprint(":alarm_clock: Document expiring soon"),
		Body:  fmt.Sprintf("Your %s expires in %d days.", docType, days),
		Data: map[string]string{
			"documentId": doc.ID.Hex(),
			"vehicleId":  doc.VehicleID.Hex(),
			"daysLeft":   strconv.Itoa(days),
		},
	}
}

// calendarDay returns the date t falls on in loc, as midnight UTC. Expiry
// dates are stored as midnight UTC of their calendar date, so both sides of a
// day count share one clock.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysUntil rounds partial days up, so anything later on the 15th day counts
// as 15
func daysUntil(today, expiry time.Time) int {
	return int(math.Ceil(expiry.UTC().Sub(today).Hours() / 24))
}
