package awssecrets

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// api is the subset of the Secrets Manager client used by this service
type api interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type service struct {
	client api
}

type SecretsService interface {
	GetMerakiAPIKey(ctx context.Context, secretName string) (string, error)
}
