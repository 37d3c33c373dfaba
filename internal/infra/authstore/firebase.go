package authstore

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	appauth "tubo/internal/app/services/auth"
)

// FirebaseVerifier validates Firebase ID tokens for the social sign-in path.
type FirebaseVerifier struct {
	client *firebaseauth.Client
}

// NewFirebaseVerifier initializes the Firebase app from a service-account
// credentials file.
func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("authstore: firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("authstore: firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*appauth.ExternalIdentity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	identity := &appauth.ExternalIdentity{UID: token.UID}
	if v := claimString(token.Claims, "email"); v != "" {
		identity.Email = v
	}
	if v := claimString(token.Claims, "name"); v != "" {
		identity.DisplayName = v
	}
	if v := claimString(token.Claims, "picture"); v != "" {
		identity.PhotoURL = v
	}
	return identity, nil
}

func claimString(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
