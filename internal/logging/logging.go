// README: zap logger construction.
package logging

import "go.uber.org/zap"

// New returns a production JSON logger, or a human-readable development
// logger when FLEETRENT_ENV=dev is set.
func New(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
