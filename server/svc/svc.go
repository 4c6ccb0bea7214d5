// Package svc has services for interacting with the touist server backend
// decoupled from the API that accesses it.
package svc

import (
	"github.com/touist-lang/touist/internal/cache"
	"github.com/touist-lang/touist/server/dao"
)

// Service is a service for interacting with and modifying the touist server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO
// store to DB before attempting to use it.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	// Compiled is the content-addressed clause cache shared across every
	// compile this Service runs, so resubmitting an identical AST under
	// identical options skips straight to the cached DIMACS/table text.
	Compiled *cache.Store
}
