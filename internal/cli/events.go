package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"immichart/internal/events"
	applog "immichart/internal/log"
)

func newEventsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Tail chart interaction events from the AMQP queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tailEvents(cmd.Context())
		},
	}
}

func (a *app) tailEvents(ctx context.Context) error {
	if a.cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is not set")
	}
	logger := a.logger.WithComponent(applog.ComponentEvents)
	sub, err := events.DialWithRetry(ctx, a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, 5, logger.Logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	err = sub.Consume(ctx, func(e events.Event) error {
		logger.Info("Chart event",
			"kind", e.Kind,
			applog.FieldSession, e.Session,
			applog.FieldCategory, e.Category,
			applog.FieldVisible, e.Visible,
			"at", e.Timestamp)
		_, werr := fmt.Fprintf(a.out, "%s %s %s %s visible=%t\n",
			e.Timestamp.Format("15:04:05"), e.Kind, e.Session, e.Category, e.Visible)
		return werr
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
