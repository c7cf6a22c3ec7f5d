package domain

import "errors"

// Ошибки приема обновлений. На границе HTTP каждая отображается в свой
// статус, без схлопывания в один код.
var (
	ErrNoToken         = errors.New("no token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUpstreamTimeout = errors.New("token verifier timed out")
)
