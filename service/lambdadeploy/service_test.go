package lambdadeploy

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/netopslab/vmx-deploy/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLambda struct {
	exists bool

	createInput *lambda.CreateFunctionInput
	codeInput   *lambda.UpdateFunctionCodeInput
	configInput *lambda.UpdateFunctionConfigurationInput
	layerInput  *lambda.PublishLayerVersionInput
}

func (f *fakeLambda) GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	if !f.exists {
		return nil, &types.ResourceNotFoundException{Message: aws.String("function not found")}
	}
	return &lambda.GetFunctionOutput{
		Configuration: &types.FunctionConfiguration{
			State:            types.StateActive,
			LastUpdateStatus: types.LastUpdateStatusSuccessful,
		},
	}, nil
}

func (f *fakeLambda) CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error) {
	f.createInput = params
	f.exists = true
	return &lambda.CreateFunctionOutput{
		FunctionArn: aws.String("arn:aws:lambda:eu-west-1:123456789012:function:meraki-automation"),
		Version:     aws.String("1"),
	}, nil
}

func (f *fakeLambda) UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error) {
	f.codeInput = params
	return &lambda.UpdateFunctionCodeOutput{
		FunctionArn: aws.String("arn:aws:lambda:eu-west-1:123456789012:function:meraki-automation"),
		Version:     aws.String("7"),
	}, nil
}

func (f *fakeLambda) UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error) {
	f.configInput = params
	return &lambda.UpdateFunctionConfigurationOutput{}, nil
}

func (f *fakeLambda) PublishLayerVersion(ctx context.Context, params *lambda.PublishLayerVersionInput, optFns ...func(*lambda.Options)) (*lambda.PublishLayerVersionOutput, error) {
	f.layerInput = params
	return &lambda.PublishLayerVersionOutput{
		LayerVersionArn: aws.String("arn:aws:lambda:eu-west-1:123456789012:layer:meraki-deps:3"),
		Version:         3,
	}, nil
}

func testSpec() model.FunctionSpec {
	return model.FunctionSpec{
		Name:             "meraki-automation",
		Handler:          "lambda_function.lambda_handler",
		Runtime:          "python3.12",
		RoleARN:          "arn:aws:iam::123456789012:role/meraki-lambda",
		MemorySize:       256,
		TimeoutSeconds:   300,
		Environment:      model.EnvDev,
		SecretName:       "meraki/api",
		OrganizationID:   "wh7Kwc",
		SubnetIDs:        []string{"subnet-private"},
		SecurityGroupIDs: []string{"sg-123"},
	}
}

func TestDeployFunction_CreatesWhenMissing(t *testing.T) {
	fake := &fakeLambda{}
	svc := &service{client: fake}

	result, err := svc.DeployFunction(context.Background(), testSpec(), []byte("zip"), "arn:aws:lambda:eu-west-1:123456789012:layer:meraki-deps:3")
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "1", result.Version)

	require.NotNil(t, fake.createInput)
	assert.Nil(t, fake.codeInput)
	assert.Equal(t, int32(256), aws.ToInt32(fake.createInput.MemorySize))
	assert.Equal(t, []string{"subnet-private"}, fake.createInput.VpcConfig.SubnetIds)
	assert.Equal(t, map[string]string{
		"MERAKI_SECRET_NAME": "meraki/api",
		"ORGANIZATION_ID":    "wh7Kwc",
		"DEPLOY_ENV":         "dev",
	}, fake.createInput.Environment.Variables)
}

func TestDeployFunction_UpdatesWhenPresent(t *testing.T) {
	fake := &fakeLambda{exists: true}
	svc := &service{client: fake}

	result, err := svc.DeployFunction(context.Background(), testSpec(), []byte("zip"), "")
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, "7", result.Version)

	assert.Nil(t, fake.createInput)
	require.NotNil(t, fake.codeInput)
	assert.True(t, fake.codeInput.Publish)
	require.NotNil(t, fake.configInput)
	assert.Nil(t, fake.configInput.Layers)
}

func TestDeployFunction_RejectsInvalidSpec(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.FunctionSpec)
		wantErr string
	}{
		{
			name:    "bad memory size",
			mutate:  func(s *model.FunctionSpec) { s.MemorySize = 300 },
			wantErr: "memory size",
		},
		{
			name:    "bad role arn",
			mutate:  func(s *model.FunctionSpec) { s.RoleARN = "arn:aws:iam::123:role/short" },
			wantErr: "role arn",
		},
		{
			name:    "bad environment",
			mutate:  func(s *model.FunctionSpec) { s.Environment = "staging" },
			wantErr: "environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &service{client: &fakeLambda{}}
			spec := testSpec()
			tt.mutate(&spec)

			_, err := svc.DeployFunction(context.Background(), spec, []byte("zip"), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPublishLayer(t *testing.T) {
	fake := &fakeLambda{}
	svc := &service{client: fake}

	info, err := svc.PublishLayer(context.Background(), "meraki-deps", []byte("layer"), []string{"python3.12"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), info.Version)
	assert.Contains(t, info.ARN, "meraki-deps")
	assert.Equal(t, []types.Runtime{types.RuntimePython312}, fake.layerInput.CompatibleRuntimes)
}
