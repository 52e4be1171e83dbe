package awsssm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/netopslab/vmx-deploy/model"
)

func NewService(awsconfig aws.Config) *service {
	client := ssm.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

type tokenRecord struct {
	Token       string `json:"token"`
	ExpiresAt   string `json:"expires_at"`
	NetworkID   string `json:"network_id"`
	GeneratedAt string `json:"generated_at"`
}

// StoreAuthToken writes the vMX authentication token to Parameter Store as a
// SecureString and returns the parameter name
func (s *service) StoreAuthToken(ctx context.Context, vmxName, networkID string, token model.AuthToken) (string, error) {
	name := fmt.Sprintf("/meraki/vmx/%s/auth-token", vmxName)

	payload, err := json.Marshal(tokenRecord{
		Token:       token.Token,
		ExpiresAt:   token.ExpiresAt,
		NetworkID:   networkID,
		GeneratedAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	_, err = s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:        aws.String(name),
		Value:       aws.String(string(payload)),
		Type:        types.ParameterTypeSecureString,
		Overwrite:   aws.Bool(true),
		Description: aws.String(fmt.Sprintf("Meraki vMX authentication token for %s", vmxName)),
	})
	if err != nil {
		return "", fmt.Errorf("storing token in parameter store: %w", err)
	}

	return name, nil
}
