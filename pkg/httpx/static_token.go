package httpx

import (
	"context"
	"errors"
)

var ErrTokenRejected = errors.New("static bearer token is empty or was rejected")

// StaticToken authenticates with a fixed API token that cannot be refreshed.
type StaticToken string

func (t StaticToken) Authenticate(context.Context) error {
	return ErrTokenRejected
}

func (t StaticToken) BearerToken() string {
	return string(t)
}
