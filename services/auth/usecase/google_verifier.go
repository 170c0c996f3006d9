package usecase

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates a Google ID token and extracts the holder's
// identity. The real implementation calls Google's token endpoint; tests
// substitute a fake.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (email, name string, err error)
}

type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(ctx context.Context, token string) (string, string, error) {
	payload, err := idtoken.Validate(ctx, token, g.clientID)
	if err != nil {
		return "", "", fmt.Errorf("failed to validate Google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return "", "", ErrInvalidGoogleToken
	}
	if name == "" {
		name = "User"
	}

	return email, name, nil
}
