package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"slawn/internal/domain/entity"
)

// adminClaim is the custom claim that marks an administrator.
const adminClaim = "admin"

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*entity.Principal, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return PrincipalFromClaims(result.UID, result.Claims), nil
}

// PrincipalFromClaims maps verified token claims onto the caller identity.
func PrincipalFromClaims(uid string, claims map[string]interface{}) *entity.Principal {
	p := &entity.Principal{ID: uid}

	if v, ok := claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		p.Name = v
	}
	if v, ok := claims["picture"].(string); ok {
		p.Avatar = v
	}
	if v, ok := claims[adminClaim].(bool); ok {
		p.Admin = v
	}

	return p
}
