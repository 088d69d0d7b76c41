// Package logger expone un logger zap singleton con scoping por contexto.
//
// # Uso
//
// Inicialización (una vez en cmd/instanced):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,   // "dev" o "prod"
//	    Level: cfg.Log.Level, // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// Componentes de larga vida (membership, registry) reciben un *zap.Logger
// nombrado en su constructor; si no se pasa ninguno usan Named(...).
//
//	log := logger.Named("managed").With(logger.Host(host))
//	log.Info("cluster manifest found", logger.Path(file))
//
// En handlers HTTP el middleware inyecta un logger con request_id:
//
//	logger.From(r.Context()).Debug("instance view served")
package logger
