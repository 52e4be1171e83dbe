package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Deployment environments accepted by the tooling
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Lambda memory sizes allowed by the deployment pipeline
var AllowedMemorySizes = []int32{128, 256, 512, 1024}

var roleARNRegex = regexp.MustCompile(`^arn:aws:iam::\d{12}:role/[\w+=,.@/-]+$`)

// DeployConfig is the file-backed configuration for all workflows
type DeployConfig struct {
	MerakiAPIKey   string `json:"meraki_api_key" yaml:"meraki_api_key"`
	OrganizationID string `json:"organization_id" yaml:"organization_id"`
	NetworkID      string `json:"network_id,omitempty" yaml:"network_id,omitempty"`
	NetworkName    string `json:"network_name,omitempty" yaml:"network_name,omitempty"`

	AWSRegion         string            `json:"aws_region" yaml:"aws_region"`
	KeyPairName       string            `json:"key_pair_name,omitempty" yaml:"key_pair_name,omitempty"`
	VPCCidr           string            `json:"vpc_cidr,omitempty" yaml:"vpc_cidr,omitempty"`
	PublicSubnetCidr  string            `json:"subnet_cidr,omitempty" yaml:"subnet_cidr,omitempty"`
	PrivateSubnetCidr string            `json:"private_subnet_cidr,omitempty" yaml:"private_subnet_cidr,omitempty"`
	VMXName           string            `json:"vmx_name,omitempty" yaml:"vmx_name,omitempty"`
	InstanceType      string            `json:"instance_type,omitempty" yaml:"instance_type,omitempty"`
	AvailabilityZone  string            `json:"availability_zone,omitempty" yaml:"availability_zone,omitempty"`
	Tags              map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`

	Timezone      string   `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	NetworkTags   []string `json:"network_tags,omitempty" yaml:"network_tags,omitempty"`
	TemplateName  string   `json:"template_name,omitempty" yaml:"template_name,omitempty"`
	DeviceSerials []string `json:"device_serials,omitempty" yaml:"device_serials,omitempty"`
	SourceDevice  string   `json:"source_device,omitempty" yaml:"source_device,omitempty"`
	TargetNetwork string   `json:"target_network,omitempty" yaml:"target_network,omitempty"`
	WANVlan       *int     `json:"wan_vlan,omitempty" yaml:"wan_vlan,omitempty"`

	Function FunctionConfig `json:"function,omitempty" yaml:"function,omitempty"`
}

// FunctionConfig describes the Lambda function deployed by the function workflow
type FunctionConfig struct {
	Name             string `json:"name,omitempty" yaml:"name,omitempty"`
	Handler          string `json:"handler,omitempty" yaml:"handler,omitempty"`
	HandlerDir       string `json:"handler_dir,omitempty" yaml:"handler_dir,omitempty"`
	LayerDir         string `json:"layer_dir,omitempty" yaml:"layer_dir,omitempty"`
	Runtime          string `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	RoleARN          string `json:"role_arn,omitempty" yaml:"role_arn,omitempty"`
	MemorySize       int32  `json:"memory_size,omitempty" yaml:"memory_size,omitempty"`
	TimeoutSeconds   int32  `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	SecretName       string `json:"secret_name,omitempty" yaml:"secret_name,omitempty"`
	LogRetentionDays int32  `json:"log_retention_days,omitempty" yaml:"log_retention_days,omitempty"`

	// VPC placement so outbound traffic leaves through the NAT gateway EIP
	SubnetIDs        []string `json:"subnet_ids,omitempty" yaml:"subnet_ids,omitempty"`
	SecurityGroupIDs []string `json:"security_group_ids,omitempty" yaml:"security_group_ids,omitempty"`
}

// LoadDeployConfig reads a JSON or YAML configuration file, applies defaults
// and validates required fields
func LoadDeployConfig(path string) (*DeployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &DeployConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing json config: %w", err)
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills unset fields with the values the original deployment used
func (c *DeployConfig) ApplyDefaults() {
	if c.VPCCidr == "" {
		c.VPCCidr = "10.0.0.0/16"
	}
	if c.PublicSubnetCidr == "" {
		c.PublicSubnetCidr = "10.0.1.0/24"
	}
	if c.PrivateSubnetCidr == "" {
		c.PrivateSubnetCidr = "10.0.2.0/24"
	}
	if c.VMXName == "" {
		c.VMXName = "Meraki-vMX-AWS"
	}
	if c.InstanceType == "" {
		c.InstanceType = "c5.large"
	}
	if c.AvailabilityZone == "" && c.AWSRegion != "" {
		c.AvailabilityZone = c.AWSRegion + "a"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/London"
	}
	if c.Function.Runtime == "" {
		c.Function.Runtime = "python3.12"
	}
	if c.Function.Handler == "" {
		c.Function.Handler = "lambda_function.lambda_handler"
	}
	if c.Function.MemorySize == 0 {
		c.Function.MemorySize = 128
	}
	if c.Function.TimeoutSeconds == 0 {
		c.Function.TimeoutSeconds = 300
	}
	if c.Function.LogRetentionDays == 0 {
		c.Function.LogRetentionDays = 30
	}
}

// Validate checks required fields and value constraints
func (c *DeployConfig) Validate() error {
	if c.MerakiAPIKey == "" && c.Function.SecretName == "" {
		return fmt.Errorf("required configuration field missing: meraki_api_key or function.secret_name")
	}
	if c.OrganizationID == "" {
		return fmt.Errorf("required configuration field missing: organization_id")
	}
	if c.AWSRegion == "" {
		return fmt.Errorf("required configuration field missing: aws_region")
	}
	if c.Function.RoleARN != "" && !ValidRoleARN(c.Function.RoleARN) {
		return fmt.Errorf("invalid lambda execution role arn: %q", c.Function.RoleARN)
	}
	if !ValidMemorySize(c.Function.MemorySize) {
		return fmt.Errorf("invalid lambda memory size %d, must be one of %v", c.Function.MemorySize, AllowedMemorySizes)
	}
	return nil
}

// ValidEnvironment reports whether env is an accepted deployment environment
func ValidEnvironment(env string) bool {
	return env == EnvDev || env == EnvProd
}

// ValidMemorySize reports whether size is an accepted Lambda memory size
func ValidMemorySize(size int32) bool {
	for _, allowed := range AllowedMemorySizes {
		if size == allowed {
			return true
		}
	}
	return false
}

// ValidRoleARN reports whether arn looks like an IAM role ARN
func ValidRoleARN(arn string) bool {
	return roleARNRegex.MatchString(arn)
}

// RoleARNAccountID extracts the 12 digit account id from a role ARN
func RoleARNAccountID(arn string) string {
	if !ValidRoleARN(arn) {
		return ""
	}
	parts := strings.Split(arn, ":")
	return parts[4]
}
