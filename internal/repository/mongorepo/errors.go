package mongorepo

import (
	"errors"
	"eshop/internal/domain"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// translateError maps mongo-driver failures. Duplicate keys are handled by
// the caller since only the order number index is unique.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var selErr topology.ServerSelectionError
	switch {
	case errors.As(err, &selErr),
		errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsNetworkError(err):
		return domain.NewStoreError(domain.KindUnavailable, domain.CodeStoreUnavailable, op, err)
	case mongo.IsTimeout(err):
		return domain.NewStoreError(domain.KindTimeout, domain.CodeStoreTimeout, op, err)
	}
	return domain.NewStoreError(domain.KindInternal, domain.CodeDatabaseError, op, err)
}
