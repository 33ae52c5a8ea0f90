// internal/app/system/changefeed/changefeed.go

// Package changefeed delivers live snapshots of a filtered, ordered Mongo
// query. Each delivery is the complete current result set, not a delta:
// every change notification triggers a full re-query and re-decode, and a
// new snapshot fully supersedes the previous one.
package changefeed

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DecodeFunc turns one raw document into a T. Returning ok=false drops the
// document from the snapshot without failing the rest; decoders use this
// for records whose enum-valued fields hold unknown values.
type DecodeFunc[T any] func(raw bson.Raw) (T, bool)

// Query is the equality/array-contains filter and sort order a
// subscription maintains.
type Query struct {
	Filter bson.D
	Sort   bson.D
}

// pollInterval is the re-query cadence used when the deployment cannot
// serve change streams (standalone server in development).
const pollInterval = 3 * time.Second

// Subscription is a live view over one query. Snapshots are produced by a
// single goroutine, so decodes never run concurrently for the same
// subscription; the channel holds at most the latest unconsumed snapshot.
type Subscription[T any] struct {
	snapshots chan []T
	cancel    context.CancelFunc
	done      chan struct{}
}

// Watch opens a subscription on coll for q. The first snapshot is
// delivered after the initial query completes; subsequent snapshots follow
// every observed change. Close the subscription before opening a
// replacement for a changed filter, or both will deliver.
func Watch[T any](ctx context.Context, coll *mongo.Collection, q Query, decode DecodeFunc[T], logger *zap.Logger) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		snapshots: make(chan []T, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go s.run(ctx, coll, q, decode, logger)
	return s
}

// Snapshots returns the delivery channel. It is closed when the
// subscription ends.
func (s *Subscription[T]) Snapshots() <-chan []T {
	return s.snapshots
}

// Close tears the subscription down and waits for the delivery goroutine
// to finish, so no snapshot can arrive after Close returns.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

func (s *Subscription[T]) run(ctx context.Context, coll *mongo.Collection, q Query, decode DecodeFunc[T], logger *zap.Logger) {
	defer close(s.done)
	defer close(s.snapshots)

	if !s.deliver(ctx, coll, q, decode, logger) {
		return
	}

	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if !isChangeStreamUnsupported(err) {
			logger.Error("change stream open failed", zap.String("collection", coll.Name()), zap.Error(err))
			return
		}
		logger.Warn("change streams unsupported; falling back to polling",
			zap.String("collection", coll.Name()),
			zap.Duration("interval", pollInterval))
		s.poll(ctx, coll, q, decode, logger)
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		if !s.deliver(ctx, coll, q, decode, logger) {
			return
		}
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		logger.Error("change stream ended", zap.String("collection", coll.Name()), zap.Error(err))
	}
}

func (s *Subscription[T]) poll(ctx context.Context, coll *mongo.Collection, q Query, decode DecodeFunc[T], logger *zap.Logger) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.deliver(ctx, coll, q, decode, logger) {
				return
			}
		}
	}
}

// deliver re-runs the query and publishes the decoded snapshot,
// superseding any unconsumed one. Returns false when the subscription
// should stop.
func (s *Subscription[T]) deliver(ctx context.Context, coll *mongo.Collection, q Query, decode DecodeFunc[T], logger *zap.Logger) bool {
	snap, err := runQuery(ctx, coll, q, decode, logger)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		logger.Error("snapshot query failed", zap.String("collection", coll.Name()), zap.Error(err))
		// Keep the subscription alive; the next change retries.
		return true
	}

	select {
	case <-s.snapshots:
	default:
	}
	select {
	case s.snapshots <- snap:
	case <-ctx.Done():
		return false
	}
	return true
}

func runQuery[T any](ctx context.Context, coll *mongo.Collection, q Query, decode DecodeFunc[T], logger *zap.Logger) ([]T, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	cur, err := coll.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	for cur.Next(ctx) {
		v, ok := decode(cur.Current)
		if !ok {
			logger.Debug("snapshot dropped undecodable document", zap.String("collection", coll.Name()))
			continue
		}
		out = append(out, v)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isChangeStreamUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "replica set") || strings.Contains(msg, "$changestream")
}
