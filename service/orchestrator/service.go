package orchestrator

import (
	"context"
	"fmt"

	"github.com/netopslab/vmx-deploy/model"
	"github.com/netopslab/vmx-deploy/service"
	"github.com/netopslab/vmx-deploy/utils"
)

func NewService(
	identityService service.IdentityService,
	networkService service.NetworkService,
	profileService service.InstanceProfileService,
	functionService service.FunctionService,
	logsService service.LogGroupService,
	tokenStore service.TokenStore,
	dashboardService service.DashboardService,
) *orchestratorService {
	return &orchestratorService{
		identityService:  identityService,
		networkService:   networkService,
		profileService:   profileService,
		functionService:  functionService,
		logsService:      logsService,
		tokenStore:       tokenStore,
		dashboardService: dashboardService,
	}
}

func (s *orchestratorService) Orchestrate(flags model.Flags, cfg *model.DeployConfig) error {
	selected := 0
	for _, set := range []bool{flags.Provision, flags.Deploy, flags.Function, flags.Network, flags.MoveDevice} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return fmt.Errorf("choose a single workflow flag: -provision, -deploy, -function, -network or -move-device")
	}

	if flags.DryRun {
		utils.StopSpinner()
		utils.DrawPlanTable(cfg)
		return nil
	}

	switch {
	case flags.Provision:
		return s.provisionWorkflow(cfg)
	case flags.Function:
		return s.functionWorkflow(flags, cfg)
	case flags.Network:
		return s.networkWorkflow(cfg)
	case flags.MoveDevice:
		return s.moveDeviceWorkflow(cfg)
	default:
		// -deploy, or no selector at all
		return s.deployWorkflow(cfg)
	}
}

func (s *orchestratorService) provisionWorkflow(cfg *model.DeployConfig) error {
	account, err := s.identityService.GetAccountInfo(context.Background())
	if err != nil {
		return err
	}

	stack, err := s.networkService.ProvisionNetworkStack(context.Background(), cfg)
	if err != nil {
		return err
	}

	utils.StopSpinner()

	utils.DrawStackTable(account.AccountID, stack)
	return nil
}

func (s *orchestratorService) deployWorkflow(cfg *model.DeployConfig) error {
	ctx := context.Background()

	if err := s.dashboardService.ValidateAccess(ctx); err != nil {
		return err
	}

	// Fetched up front so a failed identity call cannot abort the run after
	// the instance is already launched
	account, err := s.identityService.GetAccountInfo(ctx)
	if err != nil {
		return err
	}

	networkId := cfg.NetworkID
	if networkId == "" {
		network, err := s.dashboardService.CreateNetwork(ctx, cfg.VMXName, nil, cfg.NetworkTags, cfg.Timezone)
		if err != nil {
			return err
		}
		networkId = network.ID
	}

	token, err := s.dashboardService.GenerateVMXToken(ctx, networkId)
	if err != nil {
		return err
	}

	tokenParameter, err := s.tokenStore.StoreAuthToken(ctx, cfg.VMXName, networkId, *token)
	if err != nil {
		return err
	}

	stack, err := s.networkService.ProvisionNetworkStack(ctx, cfg)
	if err != nil {
		return err
	}

	// The vMX works without a profile, so a denied IAM call only costs
	// session manager access
	profileARN, err := s.profileService.EnsureInstanceProfile(ctx, cfg.VMXName)
	if err != nil {
		utils.PrintWarning("instance profile unavailable, launching without one: %v", err)
		profileARN = ""
	}

	instance, err := s.networkService.RunVMXInstance(ctx, cfg, stack, profileARN, token.Token)
	if err != nil {
		return err
	}

	if _, err := s.dashboardService.AwaitVMXDevice(ctx, networkId); err != nil {
		utils.PrintWarning("vMX registration not confirmed yet: %v", err)
	}

	utils.StopSpinner()

	utils.DrawDeploySummary(account.AccountID, cfg, networkId, tokenParameter, stack, instance)
	return nil
}

func (s *orchestratorService) functionWorkflow(flags model.Flags, cfg *model.DeployConfig) error {
	ctx := context.Background()

	name := cfg.Function.Name
	if flags.FunctionName != "" {
		name = flags.FunctionName
	}
	if name == "" {
		return fmt.Errorf("function name missing, set function.name in the config or pass -function-name")
	}
	if cfg.Function.RoleARN == "" {
		return fmt.Errorf("function.role_arn is required to deploy %s", name)
	}
	if cfg.Function.HandlerDir == "" {
		return fmt.Errorf("function.handler_dir is required to deploy %s", name)
	}

	memorySize := cfg.Function.MemorySize
	if flags.MemorySize != 0 {
		memorySize = flags.MemorySize
	}

	codeZip, err := utils.ZipDirectory(cfg.Function.HandlerDir, "")
	if err != nil {
		return err
	}

	layerARN := ""
	if cfg.Function.LayerDir != "" {
		layerZip, err := utils.ZipDirectory(cfg.Function.LayerDir, "python")
		if err != nil {
			return err
		}

		layer, err := s.functionService.PublishLayer(ctx, name+"-deps", layerZip, []string{cfg.Function.Runtime})
		if err != nil {
			return err
		}
		layerARN = layer.ARN
	}

	logGroup := "/aws/lambda/" + name
	if err := s.logsService.EnsureLogGroup(ctx, logGroup, cfg.Function.LogRetentionDays); err != nil {
		return err
	}

	spec := model.FunctionSpec{
		Name:             name,
		Handler:          cfg.Function.Handler,
		Runtime:          cfg.Function.Runtime,
		RoleARN:          cfg.Function.RoleARN,
		MemorySize:       memorySize,
		TimeoutSeconds:   cfg.Function.TimeoutSeconds,
		Environment:      flags.Environment,
		SecretName:       cfg.Function.SecretName,
		OrganizationID:   cfg.OrganizationID,
		SubnetIDs:        cfg.Function.SubnetIDs,
		SecurityGroupIDs: cfg.Function.SecurityGroupIDs,
	}

	result, err := s.functionService.DeployFunction(ctx, spec, codeZip, layerARN)
	if err != nil {
		return err
	}

	utils.StopSpinner()

	utils.DrawFunctionTable(flags.Environment, result, logGroup)
	return nil
}

func (s *orchestratorService) networkWorkflow(cfg *model.DeployConfig) error {
	ctx := context.Background()

	if err := s.dashboardService.ValidateAccess(ctx); err != nil {
		return err
	}

	name := cfg.NetworkName
	if name == "" {
		name = cfg.VMXName
	}

	network, err := s.dashboardService.CreateNetwork(ctx, name, nil, cfg.NetworkTags, cfg.Timezone)
	if err != nil {
		return err
	}

	if cfg.TemplateName != "" {
		if err := s.dashboardService.BindTemplate(ctx, network.ID, cfg.TemplateName); err != nil {
			utils.PrintWarning("template %q not bound: %v", cfg.TemplateName, err)
		}
	}

	serials := cfg.DeviceSerials
	if len(serials) == 0 {
		inventory, err := s.dashboardService.OrganizationInventory(ctx)
		if err != nil {
			return err
		}
		for _, device := range inventory {
			serials = append(serials, device.Serial)
		}
	}

	utils.StopSpinner()
	utils.PrintStep("created network %s (%s)", network.Name, network.ID)

	if len(serials) == 0 {
		utils.PrintWarning("no unclaimed devices found in the organization inventory")
		return nil
	}

	if err := s.dashboardService.ClaimDevices(ctx, network.ID, serials); err != nil {
		return err
	}
	utils.PrintStep("claimed %d device(s)", len(serials))

	devices, err := s.dashboardService.VerifyDevices(ctx, network.ID, serials)
	if err != nil {
		return err
	}
	for _, device := range devices {
		utils.PrintStep("%s %s is %s", device.Model, device.Serial, device.ConnectionStatus)
	}

	uplinkIP, err := s.dashboardService.ConfigureUplink(ctx, network.ID, cfg.WANVlan)
	if err != nil {
		utils.PrintWarning("uplink not configured: %v", err)
		return nil
	}
	if uplinkIP != "" {
		utils.PrintStep("WAN1 uplink reported %s", uplinkIP)
	}

	return nil
}

func (s *orchestratorService) moveDeviceWorkflow(cfg *model.DeployConfig) error {
	ctx := context.Background()

	if cfg.SourceDevice == "" {
		return fmt.Errorf("source_device is required to move a device")
	}
	targetName := cfg.TargetNetwork
	if targetName == "" {
		targetName = cfg.NetworkName
	}
	if targetName == "" {
		return fmt.Errorf("target_network is required to move a device")
	}

	device, err := s.dashboardService.FindDevice(ctx, cfg.SourceDevice)
	if err != nil {
		return err
	}

	network, err := s.dashboardService.FindNetworkByName(ctx, targetName)
	if err != nil {
		return err
	}

	if err := s.dashboardService.MoveDevice(ctx, device, network.ID); err != nil {
		return err
	}

	utils.StopSpinner()
	utils.PrintStep("moved %s (%s) to %s", device.Serial, device.Model, network.Name)
	return nil
}
