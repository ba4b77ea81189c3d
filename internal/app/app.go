package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/config"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/server"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/transcribe"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newGenkitClient,

			server.NewHandler,

			usecase.NewSearchUsecase,

			newRegistry,
			newRateSource,
			newConverter,
			newRewriter,
			newAggregator,

			transcribe.NewTranscriber,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}

func newGenkitClient(cfg *config.Config) (*genkit.Genkit, error) {
	if cfg.LLM.GoogleAIAPIKey == "" {
		return nil, nil
	}
	ctx := context.Background()
	googleAI := &googlegenai.GoogleAI{
		APIKey: cfg.LLM.GoogleAIAPIKey,
	}
	return genkit.Init(ctx, genkit.WithPlugins(googleAI)), nil
}
