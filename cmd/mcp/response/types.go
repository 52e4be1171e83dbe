package response

// AccountInfo represents cloud account identity
type AccountInfo struct {
	Provider    string `json:"provider"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// NetworkStack represents the provisioned AWS network resources
type NetworkStack struct {
	VpcID              string `json:"vpc_id"`
	PublicSubnetID     string `json:"public_subnet_id"`
	PrivateSubnetID    string `json:"private_subnet_id"`
	InternetGatewayID  string `json:"internet_gateway_id"`
	NatGatewayID       string `json:"nat_gateway_id"`
	EgressIP           string `json:"egress_ip"`
	PublicRouteTableID string `json:"public_route_table_id"`
	PrivateRouteTable  string `json:"private_route_table_id"`
	SecurityGroupID    string `json:"security_group_id"`
}

// Network represents a Meraki dashboard network
type Network struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ProductTypes []string `json:"product_types"`
	Tags         []string `json:"tags"`
	TimeZone     string   `json:"time_zone"`
}

// InventoryDevice represents an organization inventory entry
type InventoryDevice struct {
	Serial      string `json:"serial"`
	MAC         string `json:"mac"`
	Model       string `json:"model"`
	NetworkID   string `json:"network_id"`
	OrderNumber string `json:"order_number"`
}

// AuthToken represents a generated vMX authentication token
type AuthToken struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// MoveResult represents the outcome of a device move
type MoveResult struct {
	Serial        string `json:"serial"`
	Model         string `json:"model"`
	FromNetworkID string `json:"from_network_id"`
	ToNetworkID   string `json:"to_network_id"`
}
