package service

import (
	"context"

	"github.com/netopslab/vmx-deploy/model"
)

// IdentityService provides cloud account identity information
type IdentityService interface {
	GetAccountInfo(ctx context.Context) (*model.AccountInfo, error)
}

// NetworkService provisions the AWS network stack and manages the vMX instance
type NetworkService interface {
	ProvisionNetworkStack(ctx context.Context, cfg *model.DeployConfig) (*model.NetworkStack, error)
	LatestVMXImage(ctx context.Context) (string, error)
	RunVMXInstance(ctx context.Context, cfg *model.DeployConfig, stack *model.NetworkStack, profileARN, userData string) (*model.VMXInstance, error)
	TerminateInstance(ctx context.Context, instanceID string) error
}

// InstanceProfileService manages the IAM role and instance profile attached to
// the vMX instance
type InstanceProfileService interface {
	EnsureInstanceProfile(ctx context.Context, vmxName string) (string, error)
}

// FunctionService publishes Lambda layers and deploys function code
type FunctionService interface {
	PublishLayer(ctx context.Context, name string, zip []byte, runtimes []string) (*model.LayerInfo, error)
	DeployFunction(ctx context.Context, spec model.FunctionSpec, codeZip []byte, layerARN string) (*model.FunctionResult, error)
}

// LogGroupService manages CloudWatch log groups for deployed functions
type LogGroupService interface {
	EnsureLogGroup(ctx context.Context, name string, retentionDays int32) error
}

// TokenStore persists generated vMX authentication tokens
type TokenStore interface {
	StoreAuthToken(ctx context.Context, vmxName, networkID string, token model.AuthToken) (string, error)
}

// DashboardService covers the Meraki dashboard operations used by the workflows
type DashboardService interface {
	ValidateAccess(ctx context.Context) error
	CreateNetwork(ctx context.Context, name string, productTypes, tags []string, timeZone string) (*model.MerakiNetwork, error)
	GenerateVMXToken(ctx context.Context, networkID string) (*model.AuthToken, error)
	FindNetworkByName(ctx context.Context, name string) (*model.MerakiNetwork, error)
	OrganizationInventory(ctx context.Context) ([]model.InventoryDevice, error)
	ClaimDevices(ctx context.Context, networkID string, serials []string) error
	VerifyDevices(ctx context.Context, networkID string, serials []string) ([]model.Device, error)
	ConfigureUplink(ctx context.Context, networkID string, vlan *int) (string, error)
	AwaitVMXDevice(ctx context.Context, networkID string) (*model.Device, error)
	BindTemplate(ctx context.Context, networkID, templateName string) error
	FindDevice(ctx context.Context, serialOrMAC string) (*model.InventoryDevice, error)
	MoveDevice(ctx context.Context, device *model.InventoryDevice, targetNetworkID string) error
}
