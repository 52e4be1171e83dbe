package main

import (
	"context"

	"github.com/netopslab/vmx-deploy/model"
	awsconfig "github.com/netopslab/vmx-deploy/service/config"
	awsec2 "github.com/netopslab/vmx-deploy/service/ec2"
	"github.com/netopslab/vmx-deploy/service/flag"
	awsiam "github.com/netopslab/vmx-deploy/service/iam"
	"github.com/netopslab/vmx-deploy/service/lambdadeploy"
	awslogs "github.com/netopslab/vmx-deploy/service/logs"
	"github.com/netopslab/vmx-deploy/service/meraki"
	"github.com/netopslab/vmx-deploy/service/orchestrator"
	awssecrets "github.com/netopslab/vmx-deploy/service/secrets"
	awsssm "github.com/netopslab/vmx-deploy/service/ssm"
	awssts "github.com/netopslab/vmx-deploy/service/sts"
	"github.com/netopslab/vmx-deploy/utils"
)

func main() {
	utils.DrawBanner()

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		panic(err)
	}

	cfg, err := model.LoadDeployConfig(flags.ConfigPath)
	if err != nil {
		panic(err)
	}

	region := flags.Region
	if region == "" {
		region = cfg.AWSRegion
	}

	cfgService := awsconfig.NewService()
	awsCfg, err := cfgService.GetAWSCfg(context.Background(), region, flags.Profile)
	if err != nil {
		panic(err)
	}

	if cfg.MerakiAPIKey == "" {
		secretsService := awssecrets.NewService(awsCfg)
		apiKey, err := secretsService.GetMerakiAPIKey(context.Background(), cfg.Function.SecretName)
		if err != nil {
			panic(err)
		}
		cfg.MerakiAPIKey = apiKey
	}

	utils.StartSpinner()

	stsService := awssts.NewService(awsCfg)
	ec2Service := awsec2.NewService(awsCfg)
	iamService := awsiam.NewService(awsCfg)
	lambdaService := lambdadeploy.NewService(awsCfg)
	logsService := awslogs.NewService(awsCfg)
	ssmService := awsssm.NewService(awsCfg)
	merakiService := meraki.NewService(cfg.MerakiAPIKey, cfg.OrganizationID)

	orchestratorService := orchestrator.NewService(stsService, ec2Service, iamService, lambdaService, logsService, ssmService, merakiService)

	if err := orchestratorService.Orchestrate(flags, cfg); err != nil {
		utils.StopSpinner()
		panic(err)
	}
}
