// Package autoload initializes the global zerolog logger from the
// environment as a side effect of being imported.
package autoload

import (
	configx "github.com/shoplite/phone-shop-agent/pkg/config"
	logx "github.com/shoplite/phone-shop-agent/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOGGER")
	logx.Init(*cfg)
}
