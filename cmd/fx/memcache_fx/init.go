package memcache_fx

import (
	"go.uber.org/fx"

	mem "healthybychoice/pkg/memcache"
)

var Module = fx.Provide(provideInflightStore)

func provideInflightStore() mem.InflightStore {
	return mem.NewInflightGuard()
}
