// Package app wires configuration, logging, telemetry, the report services
// and the HTTP router into one Application and runs it.
//
//	a, err := app.New(cfg, app.Options{})
//	if err != nil {
//	    return err
//	}
//	return a.Run()
//
// Run serves until SIGINT or SIGTERM and then shuts the server and the
// telemetry providers down. New never calls os.Exit.
package app
