package push

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/messaging"
	"github.com/appleboy/go-fcm"
	"go.uber.org/zap"
)

// fcmMaxTokens is the HTTP v1 limit for one multicast message
const fcmMaxTokens = 500

// multicaster is the part of the go-fcm client the sender uses
type multicaster interface {
	SendMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
	SendMulticastDryRun(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCM sends notifications through the Firebase Cloud Messaging HTTP v1 API
type FCM struct {
	client multicaster
	dryRun bool
}

// NewFCM creates an FCM sender authenticated with a service account
// credential, given either as inline JSON or as a path to a JSON file. When
// dryRun is set, FCM validates messages without delivering them.
func NewFCM(ctx context.Context, credential string, dryRun bool, opts ...fcm.Option) (*FCM, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, errors.New("firebase service account is required")
	}
	opts = append([]fcm.Option{credentialOption(credential)}, opts...)
	client, err := fcm.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fcm client: %w", err)
	}
	return &FCM{client: client, dryRun: dryRun}, nil
}

func credentialOption(credential string) fcm.Option {
	if strings.HasPrefix(credential, "{") {
		return fcm.WithCredentialsJSON([]byte(credential))
	}
	return fcm.WithCredentialsFile(credential)
}

// SendMulticast sends n to all tokens as a single multicast message
func (f *FCM) SendMulticast(ctx context.Context, tokens []string, n Notification) (*Result, error) {
	if len(tokens) == 0 {
		return &Result{}, nil
	}
	if len(tokens) > fcmMaxTokens {
		return nil, fmt.Errorf("too many tokens for one message: %d", len(tokens))
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   n.Data,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Notification: &messaging.AndroidNotification{Sound: "default"},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{Aps: &messaging.Aps{Sound: "default"}},
		},
	}

	send := f.client.SendMulticast
	if f.dryRun {
		send = f.client.SendMulticastDryRun
	}
	resp, err := send(ctx, msg)
	if err != nil {
		return nil, err
	}

	for i, r := range resp.Responses {
		if r != nil && r.Error != nil && i < len(tokens) {
			zap.S().Debugw("fcm rejected token", "token", tokens[i], "error", r.Error)
		}
	}
	return &Result{SuccessCount: resp.SuccessCount, FailureCount: resp.FailureCount}, nil
}
