package lambdadeploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/netopslab/vmx-deploy/model"
)

const functionWaitTimeout = 5 * time.Minute

func NewService(awsconfig aws.Config) *service {
	client := lambda.NewFromConfig(awsconfig)
	return &service{
		client: client,
	}
}

// PublishLayer publishes a new layer version holding the handler dependencies.
// Every invocation produces a new version.
func (s *service) PublishLayer(ctx context.Context, name string, zip []byte, runtimes []string) (*model.LayerInfo, error) {
	compatible := make([]types.Runtime, 0, len(runtimes))
	for _, r := range runtimes {
		compatible = append(compatible, types.Runtime(r))
	}

	output, err := s.client.PublishLayerVersion(ctx, &lambda.PublishLayerVersionInput{
		LayerName:          aws.String(name),
		Description:        aws.String("Meraki automation dependencies"),
		Content:            &types.LayerVersionContentInput{ZipFile: zip},
		CompatibleRuntimes: compatible,
	})
	if err != nil {
		return nil, fmt.Errorf("publishing layer %s: %w", name, err)
	}

	return &model.LayerInfo{
		ARN:     aws.ToString(output.LayerVersionArn),
		Version: output.Version,
	}, nil
}

// DeployFunction creates the function if it does not exist, otherwise updates
// its code and configuration
func (s *service) DeployFunction(ctx context.Context, spec model.FunctionSpec, codeZip []byte, layerARN string) (*model.FunctionResult, error) {
	if !model.ValidMemorySize(spec.MemorySize) {
		return nil, fmt.Errorf("invalid memory size %d, must be one of %v", spec.MemorySize, model.AllowedMemorySizes)
	}
	if !model.ValidRoleARN(spec.RoleARN) {
		return nil, fmt.Errorf("invalid execution role arn: %q", spec.RoleARN)
	}
	if !model.ValidEnvironment(spec.Environment) {
		return nil, fmt.Errorf("invalid environment %q, must be dev or prod", spec.Environment)
	}

	getInput := &lambda.GetFunctionInput{FunctionName: aws.String(spec.Name)}

	_, err := s.client.GetFunction(ctx, getInput)
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("checking function %s: %w", spec.Name, err)
		}
		return s.createFunction(ctx, spec, codeZip, layerARN)
	}

	return s.updateFunction(ctx, spec, codeZip, layerARN)
}

func (s *service) createFunction(ctx context.Context, spec model.FunctionSpec, codeZip []byte, layerARN string) (*model.FunctionResult, error) {
	input := &lambda.CreateFunctionInput{
		FunctionName: aws.String(spec.Name),
		Runtime:      types.Runtime(spec.Runtime),
		Role:         aws.String(spec.RoleARN),
		Handler:      aws.String(spec.Handler),
		Code:         &types.FunctionCode{ZipFile: codeZip},
		MemorySize:   aws.Int32(spec.MemorySize),
		Timeout:      aws.Int32(spec.TimeoutSeconds),
		Environment:  functionEnvironment(spec),
		Tags: map[string]string{
			"Purpose":     "Meraki automation",
			"Environment": spec.Environment,
		},
	}
	if layerARN != "" {
		input.Layers = []string{layerARN}
	}
	if len(spec.SubnetIDs) > 0 {
		input.VpcConfig = &types.VpcConfig{
			SubnetIds:        spec.SubnetIDs,
			SecurityGroupIds: spec.SecurityGroupIDs,
		}
	}

	output, err := s.client.CreateFunction(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("creating function %s: %w", spec.Name, err)
	}

	waiter := lambda.NewFunctionActiveV2Waiter(s.client)
	getInput := &lambda.GetFunctionInput{FunctionName: aws.String(spec.Name)}
	if err := waiter.Wait(ctx, getInput, functionWaitTimeout); err != nil {
		return nil, err
	}

	return &model.FunctionResult{
		FunctionARN: aws.ToString(output.FunctionArn),
		Version:     aws.ToString(output.Version),
		Created:     true,
		LayerARN:    layerARN,
	}, nil
}

func (s *service) updateFunction(ctx context.Context, spec model.FunctionSpec, codeZip []byte, layerARN string) (*model.FunctionResult, error) {
	codeOutput, err := s.client.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(spec.Name),
		ZipFile:      codeZip,
		Publish:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("updating function code: %w", err)
	}

	waiter := lambda.NewFunctionUpdatedV2Waiter(s.client)
	getInput := &lambda.GetFunctionInput{FunctionName: aws.String(spec.Name)}
	if err := waiter.Wait(ctx, getInput, functionWaitTimeout); err != nil {
		return nil, err
	}

	configInput := &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(spec.Name),
		Runtime:      types.Runtime(spec.Runtime),
		Role:         aws.String(spec.RoleARN),
		Handler:      aws.String(spec.Handler),
		MemorySize:   aws.Int32(spec.MemorySize),
		Timeout:      aws.Int32(spec.TimeoutSeconds),
		Environment:  functionEnvironment(spec),
	}
	if layerARN != "" {
		configInput.Layers = []string{layerARN}
	}
	if len(spec.SubnetIDs) > 0 {
		configInput.VpcConfig = &types.VpcConfig{
			SubnetIds:        spec.SubnetIDs,
			SecurityGroupIds: spec.SecurityGroupIDs,
		}
	}

	if _, err := s.client.UpdateFunctionConfiguration(ctx, configInput); err != nil {
		return nil, fmt.Errorf("updating function configuration: %w", err)
	}

	if err := waiter.Wait(ctx, getInput, functionWaitTimeout); err != nil {
		return nil, err
	}

	return &model.FunctionResult{
		FunctionARN: aws.ToString(codeOutput.FunctionArn),
		Version:     aws.ToString(codeOutput.Version),
		Created:     false,
		LayerARN:    layerARN,
	}, nil
}

func functionEnvironment(spec model.FunctionSpec) *types.Environment {
	return &types.Environment{
		Variables: map[string]string{
			"MERAKI_SECRET_NAME": spec.SecretName,
			"ORGANIZATION_ID":    spec.OrganizationID,
			"DEPLOY_ENV":         spec.Environment,
		},
	}
}
