package model

// MerakiNetwork represents a dashboard network
type MerakiNetwork struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ProductTypes []string `json:"productTypes"`
	Tags         []string `json:"tags"`
	TimeZone     string   `json:"timeZone"`
}

// AuthToken is a vMX appliance authentication token
type AuthToken struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// Device is a device assigned to a network
type Device struct {
	Serial    string `json:"serial"`
	MAC       string `json:"mac"`
	Model     string `json:"model"`
	Name      string `json:"name"`
	NetworkID string `json:"networkId"`

	// Populated by joining device status records
	ConnectionStatus string `json:"-"`
	LastReportedAt   string `json:"-"`
}

// DeviceStatus is a connectivity status record for a device
type DeviceStatus struct {
	Serial         string `json:"serial"`
	Status         string `json:"status"`
	LastReportedAt string `json:"lastReportedAt"`
	WAN1IP         string `json:"wan1Ip"`
}

// InventoryDevice is an organization inventory entry
type InventoryDevice struct {
	Serial      string `json:"serial"`
	MAC         string `json:"mac"`
	Model       string `json:"model"`
	NetworkID   string `json:"networkId"`
	OrderNumber string `json:"orderNumber"`
}

// ConfigTemplate is an organization configuration template
type ConfigTemplate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
