package flag

import (
	"flag"
	"fmt"

	"github.com/netopslab/vmx-deploy/model"
)

func NewService() *service {
	return &service{}
}

func (s *service) GetParsedFlags() (model.Flags, error) {
	provision := flag.Bool("provision", false, "Provision the AWS network stack only")
	deploy := flag.Bool("deploy", false, "Deploy the vMX appliance end to end")
	function := flag.Bool("function", false, "Package and deploy the Lambda function")
	network := flag.Bool("network", false, "Create and configure the Meraki network")
	moveDevice := flag.Bool("move-device", false, "Move a device to the target network")

	configPath := flag.String("config", "config.json", "Path to a JSON or YAML configuration file")
	region := flag.String("region", "", "AWS region override")
	profile := flag.String("profile", "", "AWS profile configuration")
	environment := flag.String("env", model.EnvDev, "Deployment environment (dev or prod)")
	dryRun := flag.Bool("dry-run", false, "Validate configuration and show the plan without creating resources")

	functionName := flag.String("function-name", "", "Lambda function name override")
	memorySize := flag.Int("memory", 0, "Lambda memory size override (128, 256, 512 or 1024)")

	flag.Parse()

	if !model.ValidEnvironment(*environment) {
		return model.Flags{}, fmt.Errorf("invalid environment %q, must be %s or %s", *environment, model.EnvDev, model.EnvProd)
	}
	if *memorySize != 0 && !model.ValidMemorySize(int32(*memorySize)) {
		return model.Flags{}, fmt.Errorf("invalid memory size %d, must be one of %v", *memorySize, model.AllowedMemorySizes)
	}

	return model.Flags{
		Provision:    *provision,
		Deploy:       *deploy,
		Function:     *function,
		Network:      *network,
		MoveDevice:   *moveDevice,
		ConfigPath:   *configPath,
		Region:       *region,
		Profile:      *profile,
		Environment:  *environment,
		DryRun:       *dryRun,
		FunctionName: *functionName,
		MemorySize:   int32(*memorySize),
	}, nil
}
