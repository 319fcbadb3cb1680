// Package logger builds *slog.Logger instances for the service.
//
// New applies functional options (format, level, output, static attributes)
// and wraps the resulting handler with a decorator that pulls request-scoped
// values such as the request id out of context.Context on every record.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.Name),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "subscription updated",
//		logger.SubscriptionID(subID),
//		logger.Component("reconciler"),
//	)
//
// Attribute helpers in attr.go keep key names consistent across packages.
package logger
