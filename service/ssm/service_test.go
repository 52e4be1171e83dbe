package awsssm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netopslab/vmx-deploy/model"
)

type fakeSSM struct {
	input *ssm.PutParameterInput
}

func (f *fakeSSM) PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	f.input = params
	return &ssm.PutParameterOutput{Version: 1}, nil
}

func TestStoreAuthToken(t *testing.T) {
	fake := &fakeSSM{}
	svc := &service{client: fake}

	token := model.AuthToken{Token: "tok-abc", ExpiresAt: "2026-09-01T00:00:00Z"}
	name, err := svc.StoreAuthToken(context.Background(), "Meraki-vMX-AWS", "N_1234", token)
	require.NoError(t, err)

	assert.Equal(t, "/meraki/vmx/Meraki-vMX-AWS/auth-token", name)
	require.NotNil(t, fake.input)
	assert.Equal(t, name, aws.ToString(fake.input.Name))
	assert.Equal(t, types.ParameterTypeSecureString, fake.input.Type)
	assert.True(t, aws.ToBool(fake.input.Overwrite))

	var record struct {
		Token       string `json:"token"`
		ExpiresAt   string `json:"expires_at"`
		NetworkID   string `json:"network_id"`
		GeneratedAt string `json:"generated_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.input.Value)), &record))
	assert.Equal(t, "tok-abc", record.Token)
	assert.Equal(t, "2026-09-01T00:00:00Z", record.ExpiresAt)
	assert.Equal(t, "N_1234", record.NetworkID)

	_, err = time.Parse(time.RFC3339, record.GeneratedAt)
	assert.NoError(t, err, "generated_at must be RFC3339")
}
