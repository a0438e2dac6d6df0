package main

import (
	"context"

	"github.com/benjamonnguyen/catfocus"
)

// Notifier receives completion and reward events outside the terminal.
type Notifier interface {
	SessionCompleted(context.Context, catfocus.SessionCompleted) error
	RewardDrawn(context.Context, catfocus.OwnedCard) error
}

type noopNotifier struct{}

func (noopNotifier) SessionCompleted(context.Context, catfocus.SessionCompleted) error {
	return nil
}

func (noopNotifier) RewardDrawn(context.Context, catfocus.OwnedCard) error {
	return nil
}
