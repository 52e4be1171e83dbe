package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/netopslab/vmx-deploy/cmd/mcp/response"
	"github.com/netopslab/vmx-deploy/model"
	awsconfig "github.com/netopslab/vmx-deploy/service/config"
	awsec2 "github.com/netopslab/vmx-deploy/service/ec2"
	"github.com/netopslab/vmx-deploy/service/lambdadeploy"
	awslogs "github.com/netopslab/vmx-deploy/service/logs"
	awssts "github.com/netopslab/vmx-deploy/service/sts"
	"github.com/netopslab/vmx-deploy/utils"
)

// RegisterAWSTools registers all AWS tools with the MCP server
func RegisterAWSTools(s *server.MCPServer, region, profile string) {
	// Account info
	s.AddTool(
		mcp.NewTool("aws_get_account_info",
			mcp.WithDescription("Get AWS account identity information including account ID and ARN"),
		),
		makeAWSAccountInfoHandler(region, profile),
	)

	// Network stack provisioning
	s.AddTool(
		mcp.NewTool("aws_provision_network_stack",
			mcp.WithDescription("Provision a VPC with public/private subnets, internet and NAT gateways, routing and a vMX security group. Returns the IDs and the static egress IP"),
			mcp.WithString("vpc_cidr", mcp.Description("CIDR block for the VPC (default 10.0.0.0/16)")),
			mcp.WithString("subnet_cidr", mcp.Description("CIDR block for the public subnet (default 10.0.1.0/24)")),
			mcp.WithString("private_subnet_cidr", mcp.Description("CIDR block for the private subnet (default 10.0.2.0/24)")),
			mcp.WithString("name", mcp.Description("Name used to tag all created resources (default Meraki-vMX-AWS)")),
		),
		makeAWSProvisionHandler(region, profile),
	)

	// Latest vMX AMI
	s.AddTool(
		mcp.NewTool("aws_get_latest_vmx_image",
			mcp.WithDescription("Find the most recent Cisco Meraki vMX marketplace AMI in the configured region"),
		),
		makeAWSLatestImageHandler(region, profile),
	)

	// Instance termination
	s.AddTool(
		mcp.NewTool("aws_terminate_vmx_instance",
			mcp.WithDescription("Terminate a vMX EC2 instance by instance ID"),
			mcp.WithString("instance_id", mcp.Required(), mcp.Description("ID of the instance to terminate")),
		),
		makeAWSTerminateHandler(region, profile),
	)

	// Function deployment
	s.AddTool(
		mcp.NewTool("aws_deploy_function",
			mcp.WithDescription("Package a handler directory and deploy it as a Lambda function, creating or updating it and ensuring its log group"),
			mcp.WithString("function_name", mcp.Required(), mcp.Description("Name of the Lambda function")),
			mcp.WithString("handler_dir", mcp.Required(), mcp.Description("Directory containing the handler source")),
			mcp.WithString("role_arn", mcp.Required(), mcp.Description("Execution role ARN (arn:aws:iam::<account>:role/<name>)")),
			mcp.WithString("layer_dir", mcp.Description("Directory with layer dependencies, packaged under python/")),
			mcp.WithString("environment", mcp.Description("Deployment environment, dev or prod (default dev)")),
			mcp.WithNumber("memory", mcp.Description("Memory size in MB: 128, 256, 512 or 1024 (default 128)")),
			mcp.WithString("secret_name", mcp.Description("Secrets Manager secret holding the Meraki API key")),
		),
		makeAWSDeployFunctionHandler(region, profile),
	)
}

func makeAWSAccountInfoHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		stsSvc := awssts.NewService(awsCfg)
		info, err := stsSvc.GetAccountInfo(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get account info: %v", err)), nil
		}

		resp := response.ConvertAccountInfo(info)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeAWSProvisionHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		cfg := &model.DeployConfig{
			AWSRegion:         region,
			VPCCidr:           request.GetString("vpc_cidr", ""),
			PublicSubnetCidr:  request.GetString("subnet_cidr", ""),
			PrivateSubnetCidr: request.GetString("private_subnet_cidr", ""),
			VMXName:           request.GetString("name", ""),
		}
		cfg.ApplyDefaults()

		ec2Svc := awsec2.NewService(awsCfg)
		stack, err := ec2Svc.ProvisionNetworkStack(ctx, cfg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to provision network stack: %v", err)), nil
		}

		resp := response.ConvertNetworkStack(stack)
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeAWSLatestImageHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		ec2Svc := awsec2.NewService(awsCfg)
		imageId, err := ec2Svc.LatestVMXImage(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to find a vMX AMI: %v", err)), nil
		}

		resp := struct {
			ImageID string `json:"image_id"`
			Region  string `json:"region"`
		}{ImageID: imageId, Region: region}

		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeAWSDeployFunctionHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("function_name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		handlerDir, err := request.RequireString("handler_dir")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		roleARN, err := request.RequireString("role_arn")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		environment := request.GetString("environment", model.EnvDev)
		if !model.ValidEnvironment(environment) {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid environment %q, must be dev or prod", environment)), nil
		}
		memorySize := int32(request.GetFloat("memory", 128))
		if !model.ValidMemorySize(memorySize) {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid memory size %d, must be one of %v", memorySize, model.AllowedMemorySizes)), nil
		}

		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		codeZip, err := utils.ZipDirectory(handlerDir, "")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to package handler: %v", err)), nil
		}

		lambdaSvc := lambdadeploy.NewService(awsCfg)

		layerARN := ""
		if layerDir := request.GetString("layer_dir", ""); layerDir != "" {
			layerZip, err := utils.ZipDirectory(layerDir, "python")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to package layer: %v", err)), nil
			}
			layer, err := lambdaSvc.PublishLayer(ctx, name+"-deps", layerZip, []string{"python3.12"})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to publish layer: %v", err)), nil
			}
			layerARN = layer.ARN
		}

		logsSvc := awslogs.NewService(awsCfg)
		logGroup := "/aws/lambda/" + name
		if err := logsSvc.EnsureLogGroup(ctx, logGroup, 30); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to ensure log group: %v", err)), nil
		}

		spec := model.FunctionSpec{
			Name:           name,
			Handler:        "lambda_function.lambda_handler",
			Runtime:        "python3.12",
			RoleARN:        roleARN,
			MemorySize:     memorySize,
			TimeoutSeconds: 300,
			Environment:    environment,
			SecretName:     request.GetString("secret_name", ""),
		}

		result, err := lambdaSvc.DeployFunction(ctx, spec, codeZip, layerARN)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to deploy function: %v", err)), nil
		}

		resp := struct {
			FunctionARN string `json:"function_arn"`
			Version     string `json:"version"`
			Created     bool   `json:"created"`
			LayerARN    string `json:"layer_arn,omitempty"`
			LogGroup    string `json:"log_group"`
		}{
			FunctionARN: result.FunctionARN,
			Version:     result.Version,
			Created:     result.Created,
			LayerARN:    result.LayerARN,
			LogGroup:    logGroup,
		}
		data, _ := json.MarshalIndent(resp, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeAWSTerminateHandler(region, profile string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceId, err := request.RequireString("instance_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		configSvc := awsconfig.NewService()
		awsCfg, err := configSvc.GetAWSCfg(ctx, region, profile)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to configure AWS: %v", err)), nil
		}

		ec2Svc := awsec2.NewService(awsCfg)
		if err := ec2Svc.TerminateInstance(ctx, instanceId); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to terminate instance: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Instance %s is terminating", instanceId)), nil
	}
}
