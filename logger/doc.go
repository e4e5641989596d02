// Package logger is the service's structured logger, built on zerolog.
// Lines are JSON or a colored console format; fields are passed as maps
// built with Fields.
//
//	logging:
//	  level: info
//	  format: json
//
//	log := logger.Init(cfg.Logging, "authgate").WithComponent("gate")
//	log.WithContext(r.Context()).Warn("token rejected", logger.Fields(logger.FieldFailureKind, "EXPIRED"))
package logger
