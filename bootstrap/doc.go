// Package bootstrap runs a service through its lifecycle: start
// components, configure the business layer, check readiness, print a
// startup summary, wait for a signal and shut down in reverse order.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(database.NewComponent(cfg.Database, app.Logger))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return wireHandlers(a)
//	})
//	err = app.Run(ctx)
package bootstrap
