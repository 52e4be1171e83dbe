package orchestrator

import (
	"github.com/netopslab/vmx-deploy/model"
	"github.com/netopslab/vmx-deploy/service"
)

type orchestratorService struct {
	identityService  service.IdentityService
	networkService   service.NetworkService
	profileService   service.InstanceProfileService
	functionService  service.FunctionService
	logsService      service.LogGroupService
	tokenStore       service.TokenStore
	dashboardService service.DashboardService
}

type OrchestratorService interface {
	Orchestrate(model.Flags, *model.DeployConfig) error
}
