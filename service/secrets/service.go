package awssecrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

func NewService(awsconfig aws.Config) *service {
	client := secretsmanager.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

// GetMerakiAPIKey fetches the Meraki API key from a JSON secret with a
// meraki_api_key field
func (s *service) GetMerakiAPIKey(ctx context.Context, secretName string) (string, error) {
	output, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return "", fmt.Errorf("getting secret %s: %w", secretName, err)
	}

	var payload struct {
		MerakiAPIKey string `json:"meraki_api_key"`
	}
	if err := json.Unmarshal([]byte(aws.ToString(output.SecretString)), &payload); err != nil {
		return "", fmt.Errorf("parsing secret %s: %w", secretName, err)
	}
	if payload.MerakiAPIKey == "" {
		return "", fmt.Errorf("secret %s has no meraki_api_key field", secretName)
	}

	return payload.MerakiAPIKey, nil
}
