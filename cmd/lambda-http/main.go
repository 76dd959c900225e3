package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"pdf2docx/internal/bootstrap"
	"pdf2docx/internal/shared/config"
	"pdf2docx/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg := config.Load()
	if strings.TrimSpace(os.Getenv("SCRATCH_DIR")) == "" {
		// Only /tmp is writable inside the Lambda runtime.
		cfg.ScratchDir = filepath.Join(os.TempDir(), "uploads")
	}
	telemetry.Init(telemetry.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "pdf2docx-lambda",
	})
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr.Error()})
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       "Erro interno do servidor",
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		}, initErr
	}
	if ginLambda == nil {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       "Erro interno do servidor",
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		}, nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
