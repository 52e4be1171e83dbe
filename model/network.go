package model

// NetworkStack holds the identifiers of the provisioned AWS network resources.
// VpcID, PrivateSubnetID, SecurityGroupID and EgressIP are the values the CI
// secret configuration needs.
type NetworkStack struct {
	VpcID              string
	PublicSubnetID     string
	PrivateSubnetID    string
	InternetGatewayID  string
	NatGatewayID       string
	AllocationID       string
	EgressIP           string
	PublicRouteTableID string
	PrivateRouteTable  string
	SecurityGroupID    string
}

// VMXInstance holds the details of a launched vMX appliance
type VMXInstance struct {
	InstanceID string
	ImageID    string
	PublicIP   string
	PrivateIP  string
}
