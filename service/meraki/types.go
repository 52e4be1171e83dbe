package meraki

import (
	"context"
	"net/http"
	"time"

	"github.com/netopslab/vmx-deploy/model"
)

type service struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	orgID      string

	// Wait tuning, shortened in tests
	claimWait      time.Duration
	removeWait     time.Duration
	verifyInterval time.Duration
	retryInterval  time.Duration
	verifyAttempts int
	lookupAttempts int
}

type MerakiService interface {
	ValidateAccess(ctx context.Context) error
	CreateNetwork(ctx context.Context, name string, productTypes, tags []string, timeZone string) (*model.MerakiNetwork, error)
	GenerateVMXToken(ctx context.Context, networkID string) (*model.AuthToken, error)
	ListNetworks(ctx context.Context) ([]model.MerakiNetwork, error)
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
