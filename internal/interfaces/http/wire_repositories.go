package http

import (
	"github.com/azampay/momo-checkout/internal/infrastructure/cache"
	"github.com/azampay/momo-checkout/internal/infrastructure/repository"
	"github.com/azampay/momo-checkout/internal/shared/db"
)

type repositories struct {
	order  *repository.OrderRepository
	stock  *repository.StockRepository
	txMgr  *db.TransactionManager
	locker *cache.OrderLocker
	cart   *cache.CartStore
	notice *cache.NoticeStore
}

func (c *Container) initRepositories() {
	c.repos = &repositories{
		order:  repository.NewOrderRepository(c.db),
		stock:  repository.NewStockRepository(c.db),
		txMgr:  db.NewTransactionManager(c.db),
		locker: cache.NewOrderLocker(c.redis, c.cfg.Lock, c.log.Named("order-lock")),
		cart:   cache.NewCartStore(c.redis),
		notice: cache.NewNoticeStoreWithConfig(c.redis, c.cfg.Notice.TTL, c.log),
	}
}
