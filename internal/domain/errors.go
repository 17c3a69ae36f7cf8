package domain

import "errors"

var (
	ErrKeyNotFound   = errors.New("storage key not found")
	ErrRouteNotFound = errors.New("route not found")
	ErrRedirectLoop  = errors.New("too many redirects")
	ErrNotLoggedIn   = errors.New("not logged in")
)
