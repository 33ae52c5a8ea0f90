// internal/app/system/txn/txn.go

// Package txn wraps multi-document writes in a MongoDB transaction, with a
// fallback for deployments that cannot run transactions (standalone
// servers, old wire versions). The fallback applies the same writes
// without a session, which gives up all-or-nothing semantics; it exists so
// local development against a standalone mongod keeps working.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction runs fn inside a MongoDB transaction. All collection
// operations inside fn must use the context it receives, otherwise they
// escape the session.
//
// If the server reports that transactions are not supported, fn is re-run
// once outside a transaction and a warning is logged.
func WithTransaction(ctx context.Context, client *mongo.Client, logger *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Warn("mongo sessions unsupported; applying writes without a transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Warn("mongo transactions unsupported; applying writes without a transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Command error codes that indicate the deployment cannot run the
// requested transaction: IllegalOperation (20), replica-set-only
// operations (51), OperationNotSupportedInTransaction (263).
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err means the server cannot run
// transactions at all, as opposed to a transaction that failed and should
// be surfaced.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "illegal operation") {
		return true
	}
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session")) {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
