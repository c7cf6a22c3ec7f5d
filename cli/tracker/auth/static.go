package auth

import "context"

// StaticVerifier accepts tokens from a fixed allow-list. Intended for
// development and single-tenant deployments where credentials are issued
// out of band through the configuration file.
type StaticVerifier struct {
	tokens map[string]string
}

func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (Principal, error) {
	subject, ok := v.tokens[token]
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	return Principal{Subject: subject}, nil
}
