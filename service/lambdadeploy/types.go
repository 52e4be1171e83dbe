package lambdadeploy

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/netopslab/vmx-deploy/model"
)

// api is the subset of the Lambda client used by this service
type api interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
	UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error)
	PublishLayerVersion(ctx context.Context, params *lambda.PublishLayerVersionInput, optFns ...func(*lambda.Options)) (*lambda.PublishLayerVersionOutput, error)
}

type service struct {
	client api
}

type LambdaService interface {
	PublishLayer(ctx context.Context, name string, zip []byte, runtimes []string) (*model.LayerInfo, error)
	DeployFunction(ctx context.Context, spec model.FunctionSpec, codeZip []byte, layerARN string) (*model.FunctionResult, error)
}
