package response

import (
	"github.com/netopslab/vmx-deploy/model"
)

// ConvertAccountInfo converts model.AccountInfo to response.AccountInfo
func ConvertAccountInfo(info *model.AccountInfo) *AccountInfo {
	if info == nil {
		return nil
	}
	return &AccountInfo{
		Provider:    info.Provider,
		AccountID:   info.AccountID,
		AccountName: info.AccountName,
	}
}

// ConvertNetworkStack converts model.NetworkStack to response.NetworkStack
func ConvertNetworkStack(stack *model.NetworkStack) *NetworkStack {
	if stack == nil {
		return nil
	}
	return &NetworkStack{
		VpcID:              stack.VpcID,
		PublicSubnetID:     stack.PublicSubnetID,
		PrivateSubnetID:    stack.PrivateSubnetID,
		InternetGatewayID:  stack.InternetGatewayID,
		NatGatewayID:       stack.NatGatewayID,
		EgressIP:           stack.EgressIP,
		PublicRouteTableID: stack.PublicRouteTableID,
		PrivateRouteTable:  stack.PrivateRouteTable,
		SecurityGroupID:    stack.SecurityGroupID,
	}
}

// ConvertNetwork converts model.MerakiNetwork to response.Network
func ConvertNetwork(network *model.MerakiNetwork) *Network {
	if network == nil {
		return nil
	}
	return &Network{
		ID:           network.ID,
		Name:         network.Name,
		ProductTypes: network.ProductTypes,
		Tags:         network.Tags,
		TimeZone:     network.TimeZone,
	}
}

// ConvertNetworks converts a slice of model.MerakiNetwork
func ConvertNetworks(networks []model.MerakiNetwork) []Network {
	result := make([]Network, 0, len(networks))
	for i := range networks {
		result = append(result, *ConvertNetwork(&networks[i]))
	}
	return result
}

// ConvertInventory converts a slice of model.InventoryDevice
func ConvertInventory(devices []model.InventoryDevice) []InventoryDevice {
	result := make([]InventoryDevice, 0, len(devices))
	for _, device := range devices {
		result = append(result, InventoryDevice{
			Serial:      device.Serial,
			MAC:         device.MAC,
			Model:       device.Model,
			NetworkID:   device.NetworkID,
			OrderNumber: device.OrderNumber,
		})
	}
	return result
}

// ConvertAuthToken converts model.AuthToken to response.AuthToken
func ConvertAuthToken(token *model.AuthToken) *AuthToken {
	if token == nil {
		return nil
	}
	return &AuthToken{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}
}
