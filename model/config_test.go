package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDeployConfig_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"meraki_api_key": "abc123",
		"organization_id": "wh7Kwc",
		"aws_region": "eu-west-1",
		"network_name": "Branch-42",
		"function": {
			"name": "meraki-automation",
			"role_arn": "arn:aws:iam::123456789012:role/meraki-lambda",
			"memory_size": 256
		}
	}`)

	cfg, err := LoadDeployConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.MerakiAPIKey)
	assert.Equal(t, "wh7Kwc", cfg.OrganizationID)
	assert.Equal(t, "Branch-42", cfg.NetworkName)
	assert.Equal(t, int32(256), cfg.Function.MemorySize)

	// Defaults
	assert.Equal(t, "10.0.0.0/16", cfg.VPCCidr)
	assert.Equal(t, "10.0.1.0/24", cfg.PublicSubnetCidr)
	assert.Equal(t, "10.0.2.0/24", cfg.PrivateSubnetCidr)
	assert.Equal(t, "eu-west-1a", cfg.AvailabilityZone)
	assert.Equal(t, "c5.large", cfg.InstanceType)
	assert.Equal(t, "python3.12", cfg.Function.Runtime)
	assert.Equal(t, int32(300), cfg.Function.TimeoutSeconds)
	assert.Equal(t, int32(30), cfg.Function.LogRetentionDays)
}

func TestLoadDeployConfig_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
meraki_api_key: abc123
organization_id: wh7Kwc
aws_region: eu-north-1
vpc_cidr: 172.16.0.0/16
function:
  memory_size: 512
`)

	cfg, err := LoadDeployConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "172.16.0.0/16", cfg.VPCCidr)
	assert.Equal(t, int32(512), cfg.Function.MemorySize)
}

func TestLoadDeployConfig_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing api key",
			content: `{"organization_id": "o1", "aws_region": "eu-west-1"}`,
			wantErr: "meraki_api_key",
		},
		{
			name:    "missing organization",
			content: `{"meraki_api_key": "k", "aws_region": "eu-west-1"}`,
			wantErr: "organization_id",
		},
		{
			name:    "missing region",
			content: `{"meraki_api_key": "k", "organization_id": "o1"}`,
			wantErr: "aws_region",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.json", tt.content)
			_, err := LoadDeployConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDeployConfig_InvalidMemorySize(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"meraki_api_key": "k",
		"organization_id": "o1",
		"aws_region": "eu-west-1",
		"function": {"memory_size": 192}
	}`)

	_, err := LoadDeployConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory size")
}

func TestValidRoleARN(t *testing.T) {
	tests := []struct {
		name  string
		arn   string
		valid bool
	}{
		{"plain role", "arn:aws:iam::123456789012:role/meraki-lambda", true},
		{"role with path", "arn:aws:iam::123456789012:role/service/meraki-lambda", true},
		{"short account id", "arn:aws:iam::12345:role/meraki-lambda", false},
		{"letters in account id", "arn:aws:iam::12345678901a:role/meraki-lambda", false},
		{"user arn", "arn:aws:iam::123456789012:user/bob", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidRoleARN(tt.arn))
		})
	}
}

func TestRoleARNAccountID(t *testing.T) {
	assert.Equal(t, "123456789012", RoleARNAccountID("arn:aws:iam::123456789012:role/x"))
	assert.Equal(t, "", RoleARNAccountID("not-an-arn"))
}

func TestValidEnvironment(t *testing.T) {
	assert.True(t, ValidEnvironment("dev"))
	assert.True(t, ValidEnvironment("prod"))
	assert.False(t, ValidEnvironment("staging"))
	assert.False(t, ValidEnvironment(""))
}

func TestValidMemorySize(t *testing.T) {
	for _, size := range []int32{128, 256, 512, 1024} {
		assert.True(t, ValidMemorySize(size))
	}
	assert.False(t, ValidMemorySize(64))
	assert.False(t, ValidMemorySize(2048))
}
