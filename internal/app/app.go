package app

import (
	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/community-worker/internal/config"
	"github.com/nguyentranbao-ct/community-worker/internal/repo/authapi"
	"github.com/nguyentranbao-ct/community-worker/internal/repo/fcm"
	"github.com/nguyentranbao-ct/community-worker/internal/server"
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
	"github.com/nguyentranbao-ct/community-worker/internal/usecase"
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
			newStore,
			trigger.NewRegistry,

			server.NewController,

			authapi.NewClient,
			fcm.NewClient,

			usecase.NewUserResolver,
			usecase.NewNotifier,
			usecase.NewAttributionHandler,
			usecase.NewProfileProvisioningHandler,
			usecase.NewComplaintStatusHandler,
			usecase.NewComplaintNoteHandler,
			usecase.NewTokenRefreshHandler,
			usecase.NewBanEnforcementHandler,
			usecase.NewReportIngestHandler,
			usecase.NewReportStatusHandler,

			func() usecase.NameGenerator {
				return usecase.DefaultNameGenerator
			},
		),
		fx.Supply(conf),
		fx.Invoke(registerTriggers),
		fx.Invoke(funcs...),
	)
}

// registerTriggers binds every handler to the shared registry; both event
// sources (Kafka and webhook) dispatch through it.
func registerTriggers(
	registry *trigger.Registry,
	attribution *usecase.AttributionHandler,
	profile *usecase.ProfileProvisioningHandler,
	complaintStatus *usecase.ComplaintStatusHandler,
	complaintNote *usecase.ComplaintNoteHandler,
	tokenRefresh *usecase.TokenRefreshHandler,
	banEnforcement *usecase.BanEnforcementHandler,
	reportIngest *usecase.ReportIngestHandler,
	reportStatus *usecase.ReportStatusHandler,
) {
	handlers := []usecase.Handler{
		attribution,
		profile,
		complaintStatus,
		complaintNote,
		tokenRefresh,
		banEnforcement,
		reportIngest,
		reportStatus,
	}
	for _, h := range handlers {
		registry.Register(h.Trigger())
	}
}
