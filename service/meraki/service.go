package meraki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/netopslab/vmx-deploy/model"
)

const defaultBaseURL = "https://api.meraki.com/api/v1"

// NewService builds a dashboard API client. The underlying HTTP client
// retries on 429 and transient server errors.
func NewService(apiKey, orgID string) *service {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 5
	rc.RetryWaitMin = time.Second
	rc.RetryWaitMax = 30 * time.Second
	rc.Logger = nil
	// The default policy covers 429 and 5xx; the dashboard also answers with
	// 408 under load
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err == nil && resp != nil && resp.StatusCode == http.StatusRequestTimeout {
			return true, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	return &service{
		httpClient:     rc.StandardClient(),
		baseURL:        defaultBaseURL,
		apiKey:         apiKey,
		orgID:          orgID,
		claimWait:      30 * time.Second,
		removeWait:     2 * time.Second,
		verifyInterval: 60 * time.Second,
		retryInterval:  5 * time.Second,
		verifyAttempts: 4,
		lookupAttempts: 3,
	}
}

func (s *service) do(ctx context.Context, method, path string, body any, expect []int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Cisco-Meraki-API-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("meraki api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	ok := false
	for _, code := range expect {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = "empty response body"
		}
		return fmt.Errorf("meraki api %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("meraki api %s %s: decoding response: %w", method, path, err)
		}
	}
	return nil
}

func (s *service) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ValidateAccess checks the API key and organization access
func (s *service) ValidateAccess(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/organizations/"+s.orgID, nil, []int{http.StatusOK}, nil)
}

// CreateNetwork creates a new dashboard network in the organization
func (s *service) CreateNetwork(ctx context.Context, name string, productTypes, tags []string, timeZone string) (*model.MerakiNetwork, error) {
	if len(productTypes) == 0 {
		productTypes = []string{"appliance"}
	}

	payload := map[string]any{
		"name":         name,
		"productTypes": productTypes,
		"tags":         tags,
		"timeZone":     timeZone,
	}

	network := &model.MerakiNetwork{}
	err := s.do(ctx, http.MethodPost, "/organizations/"+s.orgID+"/networks", payload, []int{http.StatusCreated}, network)
	if err != nil {
		return nil, fmt.Errorf("creating network %q: %w", name, err)
	}
	return network, nil
}

// GenerateVMXToken generates a vMX appliance authentication token for the
// network. Tokens are short lived.
func (s *service) GenerateVMXToken(ctx context.Context, networkID string) (*model.AuthToken, error) {
	token := &model.AuthToken{}
	err := s.do(ctx, http.MethodPost, "/networks/"+networkID+"/appliance/vmx/authenticationToken", nil, []int{http.StatusCreated}, token)
	if err != nil {
		return nil, fmt.Errorf("generating vmx token: %w", err)
	}
	return token, nil
}

func (s *service) ListNetworks(ctx context.Context) ([]model.MerakiNetwork, error) {
	var networks []model.MerakiNetwork
	err := s.do(ctx, http.MethodGet, "/organizations/"+s.orgID+"/networks", nil, []int{http.StatusOK}, &networks)
	if err != nil {
		return nil, err
	}
	return networks, nil
}

// FindNetworkByName matches by exact name first, then falls back to the
// default meraki-network prefix
func (s *service) FindNetworkByName(ctx context.Context, name string) (*model.MerakiNetwork, error) {
	networks, err := s.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}

	for _, n := range networks {
		if strings.EqualFold(n.Name, name) {
			return &n, nil
		}
	}
	for _, n := range networks {
		if strings.HasPrefix(strings.ToLower(n.Name), "meraki-network") {
			return &n, nil
		}
	}
	return nil, fmt.Errorf("network matching %q not found", name)
}

// OrganizationInventory returns devices that are not assigned to any network.
// Only devices with a serial and an order number count as claimable.
func (s *service) OrganizationInventory(ctx context.Context) ([]model.InventoryDevice, error) {
	var lastErr error
	for attempt := 0; attempt < s.lookupAttempts; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, s.retryInterval); err != nil {
				return nil, err
			}
		}

		var inventory []model.InventoryDevice
		if lastErr = s.do(ctx, http.MethodGet, "/organizations/"+s.orgID+"/inventory/devices", nil, []int{http.StatusOK}, &inventory); lastErr != nil {
			continue
		}

		networks, err := s.ListNetworks(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		knownNetworks := make(map[string]bool, len(networks))
		for _, n := range networks {
			knownNetworks[n.ID] = true
		}

		var available []model.InventoryDevice
		for _, device := range inventory {
			if device.Serial == "" || device.OrderNumber == "" {
				continue
			}
			if device.NetworkID != "" && knownNetworks[device.NetworkID] {
				continue
			}
			available = append(available, device)
		}

		if len(available) > 0 {
			return available, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("fetching organization inventory: %w", lastErr)
	}
	return nil, nil
}

// ClaimDevices claims serials into the network via the organization claim
// endpoint, then waits for the claim to propagate
func (s *service) ClaimDevices(ctx context.Context, networkID string, serials []string) error {
	payload := map[string]any{
		"serials":   serials,
		"networkId": networkID,
	}
	err := s.do(ctx, http.MethodPost, "/organizations/"+s.orgID+"/claim", payload, []int{http.StatusOK}, nil)
	if err != nil {
		return fmt.Errorf("claiming devices %v: %w", serials, err)
	}
	return s.sleep(ctx, s.claimWait)
}

// VerifyDevices polls the network until the claimed serials show up, joining
// connectivity status records by serial
func (s *service) VerifyDevices(ctx context.Context, networkID string, serials []string) ([]model.Device, error) {
	wanted := make(map[string]bool, len(serials))
	for _, serial := range serials {
		wanted[serial] = true
	}

	for attempt := 0; attempt < s.verifyAttempts; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, s.verifyInterval); err != nil {
				return nil, err
			}
		}

		var devices []model.Device
		if err := s.do(ctx, http.MethodGet, "/networks/"+networkID+"/devices", nil, []int{http.StatusOK}, &devices); err != nil {
			return nil, err
		}

		var statuses []model.DeviceStatus
		if err := s.do(ctx, http.MethodGet, "/networks/"+networkID+"/devices/statuses", nil, []int{http.StatusOK}, &statuses); err != nil {
			return nil, err
		}

		statusBySerial := make(map[string]model.DeviceStatus, len(statuses))
		for _, status := range statuses {
			statusBySerial[status.Serial] = status
		}

		var claimed []model.Device
		for _, device := range devices {
			if !wanted[device.Serial] {
				continue
			}
			if status, found := statusBySerial[device.Serial]; found {
				device.ConnectionStatus = status.Status
				device.LastReportedAt = status.LastReportedAt
			}
			claimed = append(claimed, device)
		}

		if len(claimed) > 0 {
			return claimed, nil
		}
	}

	return nil, fmt.Errorf("no devices found in network %s after %d attempts", networkID, s.verifyAttempts)
}

// ConfigureUplink enables wan1 with DHCP and an optional VLAN, then reports
// the assigned uplink IP if one is already known
func (s *service) ConfigureUplink(ctx context.Context, networkID string, vlan *int) (string, error) {
	payload := map[string]any{
		"wan1": map[string]any{
			"enabled":       true,
			"usingStaticIp": false,
			"vlan":          vlan,
		},
	}
	err := s.do(ctx, http.MethodPut, "/networks/"+networkID+"/appliance/uplink/settings", payload, []int{http.StatusOK}, nil)
	if err != nil {
		return "", fmt.Errorf("configuring wan settings: %w", err)
	}

	var statuses []model.DeviceStatus
	if err := s.do(ctx, http.MethodGet, "/networks/"+networkID+"/devices/statuses", nil, []int{http.StatusOK}, &statuses); err != nil {
		return "", nil
	}
	for _, status := range statuses {
		if status.WAN1IP != "" {
			return status.WAN1IP, nil
		}
	}
	return "", nil
}

// BindTemplate binds the network to a configuration template resolved by
// name. Auto-bind stays off because switch profiles must be bound by hand.
func (s *service) BindTemplate(ctx context.Context, networkID, templateName string) error {
	var templates []model.ConfigTemplate
	err := s.do(ctx, http.MethodGet, "/organizations/"+s.orgID+"/configTemplates", nil, []int{http.StatusOK}, &templates)
	if err != nil {
		return fmt.Errorf("fetching config templates: %w", err)
	}

	templateID := ""
	for _, template := range templates {
		if template.Name == templateName {
			templateID = template.ID
			break
		}
	}
	if templateID == "" {
		return fmt.Errorf("config template %q not found", templateName)
	}

	payload := map[string]any{
		"configTemplateId": templateID,
		"autoBind":         false,
	}
	err = s.do(ctx, http.MethodPost, "/networks/"+networkID+"/bind", payload, []int{http.StatusOK}, nil)
	if err != nil {
		return fmt.Errorf("binding template %q: %w", templateName, err)
	}
	return nil
}

// AwaitVMXDevice polls the network until a vMX appliance registers with the
// dashboard
func (s *service) AwaitVMXDevice(ctx context.Context, networkID string) (*model.Device, error) {
	for attempt := 0; attempt < s.verifyAttempts; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, s.verifyInterval); err != nil {
				return nil, err
			}
		}

		var devices []model.Device
		if err := s.do(ctx, http.MethodGet, "/networks/"+networkID+"/devices", nil, []int{http.StatusOK}, &devices); err != nil {
			return nil, err
		}
		for _, device := range devices {
			if strings.HasPrefix(device.Model, "vMX") {
				return &device, nil
			}
		}
	}
	return nil, fmt.Errorf("vMX did not register with the dashboard after %d attempts", s.verifyAttempts)
}

// FindDevice looks up an inventory device by MAC address (colons optional)
// or serial, case-insensitive
func (s *service) FindDevice(ctx context.Context, serialOrMAC string) (*model.InventoryDevice, error) {
	var inventory []model.InventoryDevice
	err := s.do(ctx, http.MethodGet, "/organizations/"+s.orgID+"/inventory/devices", nil, []int{http.StatusOK}, &inventory)
	if err != nil {
		return nil, err
	}

	wanted := strings.ToLower(strings.ReplaceAll(serialOrMAC, ":", ""))
	for _, device := range inventory {
		mac := strings.ToLower(strings.ReplaceAll(device.MAC, ":", ""))
		if mac == wanted || strings.EqualFold(device.Serial, serialOrMAC) {
			return &device, nil
		}
	}
	return nil, fmt.Errorf("device %q not found in organization inventory", serialOrMAC)
}

// MoveDevice removes the device from its current network when needed and
// claims it into the target network
func (s *service) MoveDevice(ctx context.Context, device *model.InventoryDevice, targetNetworkID string) error {
	if device.NetworkID != "" {
		err := s.do(ctx, http.MethodPost, "/networks/"+device.NetworkID+"/devices/"+device.Serial+"/remove", nil, []int{http.StatusOK, http.StatusNoContent}, nil)
		if err != nil {
			return fmt.Errorf("removing device from network %s: %w", device.NetworkID, err)
		}
		if err := s.sleep(ctx, s.removeWait); err != nil {
			return err
		}
	}

	payload := map[string]any{"serials": []string{device.Serial}}
	err := s.do(ctx, http.MethodPost, "/networks/"+targetNetworkID+"/devices/claim", payload, []int{http.StatusOK, http.StatusCreated}, nil)
	if err != nil {
		return fmt.Errorf("claiming device into network %s: %w", targetNetworkID, err)
	}
	return nil
}
