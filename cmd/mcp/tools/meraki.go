package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/netopslab/vmx-deploy/cmd/mcp/response"
	"github.com/netopslab/vmx-deploy/service/meraki"
)

// RegisterMerakiTools registers all Meraki dashboard tools with the MCP server
func RegisterMerakiTools(s *server.MCPServer, apiKey, orgID string) {
	// Networks
	s.AddTool(
		mcp.NewTool("meraki_list_networks",
			mcp.WithDescription("List all networks in the Meraki organization"),
		),
		makeMerakiListNetworksHandler(apiKey, orgID),
	)

	// Network lookup
	s.AddTool(
		mcp.NewTool("meraki_find_network",
			mcp.WithDescription("Find a Meraki network by name"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Network name to look for")),
		),
		makeMerakiFindNetworkHandler(apiKey, orgID),
	)

	// Network creation
	s.AddTool(
		mcp.NewTool("meraki_create_network",
			mcp.WithDescription("Create a new appliance network in the Meraki organization"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name for the new network")),
			mcp.WithString("time_zone", mcp.Description("Network time zone (default Europe/London)")),
		),
		makeMerakiCreateNetworkHandler(apiKey, orgID),
	)

	// Unclaimed inventory
	s.AddTool(
		mcp.NewTool("meraki_get_inventory",
			mcp.WithDescription("List unclaimed devices in the organization inventory"),
		),
		makeMerakiInventoryHandler(apiKey, orgID),
	)

	// vMX auth token
	s.AddTool(
		mcp.NewTool("meraki_generate_vmx_token",
			mcp.WithDescription("Generate a vMX authentication token for a network. The token is valid for a limited time and is passed to the instance as user data"),
			mcp.WithString("network_id", mcp.Required(), mcp.Description("ID of the network containing the vMX appliance")),
		),
		makeMerakiTokenHandler(apiKey, orgID),
	)

	// Device move
	s.AddTool(
		mcp.NewTool("meraki_move_device",
			mcp.WithDescription("Move a device to another network by serial or MAC address. The device is removed from its current network first"),
			mcp.WithString("device", mcp.Required(), mcp.Description("Serial number or MAC address of the device")),
			mcp.WithString("target_network", mcp.Required(), mcp.Description("Name of the destination network")),
		),
		makeMerakiMoveDeviceHandler(apiKey, orgID),
	)
}

func makeMerakiListNetworksHandler(apiKey, orgID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		merakiSvc := meraki.NewService(apiKey, orgID)
		networks, err := merakiSvc.ListNetworks(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list networks: %v", err)), nil
		}

		resp := response.ConvertNetworks(networks)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeMerakiFindNetworkHandler(apiKey, orgID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		merakiSvc := meraki.NewService(apiKey, orgID)
		network, err := merakiSvc.FindNetworkByName(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to find network: %v", err)), nil
		}

		resp := response.ConvertNetwork(network)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeMerakiCreateNetworkHandler(apiKey, orgID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		timeZone := request.GetString("time_zone", "Europe/London")

		merakiSvc := meraki.NewService(apiKey, orgID)
		network, err := merakiSvc.CreateNetwork(ctx, name, nil, nil, timeZone)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create network: %v", err)), nil
		}

		resp := response.ConvertNetwork(network)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeMerakiInventoryHandler(apiKey, orgID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		merakiSvc := meraki.NewService(apiKey, orgID)
		devices, err := merakiSvc.OrganizationInventory(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get inventory: %v", err)), nil
		}

		resp := response.ConvertInventory(devices)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeMerakiTokenHandler(apiKey, orgID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		networkId, err := request.RequireString("network_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		merakiSvc := meraki.NewService(apiKey, orgID)
		token, err := merakiSvc.GenerateVMXToken(ctx, networkId)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to generate token: %v", err)), nil
		}

		resp := response.ConvertAuthToken(token)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeMerakiMoveDeviceHandler(apiKey, orgID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deviceRef, err := request.RequireString("device")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		targetName, err := request.RequireString("target_network")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		merakiSvc := meraki.NewService(apiKey, orgID)

		device, err := merakiSvc.FindDevice(ctx, deviceRef)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to find device: %v", err)), nil
		}

		network, err := merakiSvc.FindNetworkByName(ctx, targetName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to find target network: %v", err)), nil
		}

		fromNetwork := device.NetworkID
		if err := merakiSvc.MoveDevice(ctx, device, network.ID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to move device: %v", err)), nil
		}

		resp := response.MoveResult{
			Serial:        device.Serial,
			Model:         device.Model,
			FromNetworkID: fromNetwork,
			ToNetworkID:   network.ID,
		}
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}
