// Package bootstrap runs a service from config to shutdown.
//
//	a, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//		return err
//	}
//	_ = a.RegisterComponent(server)
//	a.On(bootstrap.Ready, announce)
//	return a.Run(ctx)
//
// Components start in registration order. On SIGINT, SIGTERM or context
// cancellation the BeforeStop hooks run and components stop in reverse.
package bootstrap
