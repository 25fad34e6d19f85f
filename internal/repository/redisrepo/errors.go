package redisrepo

import (
	"context"
	"eshop/internal/domain"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// translateError maps a go-redis failure onto the domain taxonomy. redis.Nil
// is a miss and must be handled by the caller before getting here.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewStoreError(domain.KindTimeout, domain.CodeStoreTimeout, op, err)
	}
	if isConnectionError(err) {
		return domain.NewStoreError(domain.KindUnavailable, domain.CodeCacheError, op, err)
	}
	return domain.NewStoreError(domain.KindInternal, domain.CodeCacheError, op, err)
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF)
}

func serializationError(op string, err error) error {
	return domain.NewStoreError(domain.KindInternal, domain.CodeCacheError, op, err)
}
