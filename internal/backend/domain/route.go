// Package domain defines the request and response model of the trading backend.
package domain

import (
	"net/http"
	"strings"
)

// Route is a backend endpoint path relative to the backend base URL.
type Route string

// Backend routes.
const (
	RouteSignUp      Route = "sign_up"
	RouteSignIn      Route = "sign_in"
	RouteUpdateUser  Route = "update"
	RouteSubmitOrder Route = "submit_order"
	RoutePortfolio   Route = "get_user/summary"
	RouteDatabase    Route = "get_user/database"
)

// UpdateRoute returns the update route for a user attribute, e.g. "update/email".
func UpdateRoute(attribute string) Route {
	return Route(string(RouteUpdateUser) + "/" + attribute)
}

// NeedsUUID reports whether the session uuid is added to the parameters.
func (r Route) NeedsUUID() bool {
	return r.hasPrefix(RouteUpdateUser) ||
		r.hasPrefix(RouteSubmitOrder) ||
		r.hasPrefix(RoutePortfolio) ||
		r.hasPrefix(RouteDatabase)
}

// NeedsPassword reports whether the session password is added to the parameters.
func (r Route) NeedsPassword() bool {
	return r.hasPrefix(RouteUpdateUser)
}

// Metric returns a bounded label for the route: the update attribute is dropped.
func (r Route) Metric() string {
	if r.hasPrefix(RouteUpdateUser) {
		return string(RouteUpdateUser)
	}
	return string(r)
}

func (r Route) hasPrefix(prefix Route) bool {
	return strings.HasPrefix(string(r), string(prefix))
}

// ParseMethod normalizes an HTTP method name. Only GET, POST, PUT and DELETE
// are accepted.
func ParseMethod(method string) (string, error) {
	switch m := strings.ToUpper(strings.TrimSpace(method)); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return m, nil
	default:
		return "", ErrUnsupportedMethod
	}
}
