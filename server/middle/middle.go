// Package middle contains middleware for use with the touist server.
package middle

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/result"
	"github.com/touist-lang/touist/server/token"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthAccount
)

// AuthHandler is middleware that will accept a request, extract the token used
// for authentication, and make calls to get the Account entity that represents
// the caller from the token.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthAccount will contain the calling account, and
// AuthLoggedIn will return whether it is authenticated (only applies for
// optional auth; for non-optional, a missing/invalid token results in an HTTP
// error being returned before the request is passed to the next handler).
type AuthHandler struct {
	db            dao.AccountRepository
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var acct dao.Account

	tok, err := token.Get(req)
	if err != nil {
		// deliberately leaving as embedded if instead of &&
		if ah.required {
			r := result.Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			log.Printf("ERROR %s %s: HTTP-%d %s", req.Method, req.URL.Path, r.Status, r.InternalMsg)
			r.WriteResponse(w)
			return
		}
	} else {
		lookupAcct, err := token.Validate(req.Context(), tok, ah.secret, ah.db)
		if err != nil {
			if ah.required {
				r := result.Unauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				log.Printf("ERROR %s %s: HTTP-%d %s", req.Method, req.URL.Path, r.Status, r.InternalMsg)
				r.WriteResponse(w)
				return
			}
		} else {
			acct = lookupAcct
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthAccount, acct)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

func RequireAuth(db dao.AccountRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

func OptionalAuth(db dao.AccountRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the function is panicking, it will write out an HTTP response with a generic
// message to the client and add it to the log.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		log.Printf("ERROR %s %s: HTTP-%d %s", req.Method, req.URL.Path, r.Status, r.InternalMsg)
		r.WriteResponse(w)
		return true
	}
	return false
}
