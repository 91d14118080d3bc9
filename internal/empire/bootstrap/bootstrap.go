package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"EmpireBuilder/internal/empire/app"
	"EmpireBuilder/internal/empire/app/port"
	"EmpireBuilder/internal/empire/battle"
	"EmpireBuilder/internal/empire/economy"
	wshandler "EmpireBuilder/internal/empire/interfaces/handler/ws"
	"EmpireBuilder/internal/empire/infra/persistence/memory"
	empiremongo "EmpireBuilder/internal/empire/infra/persistence/mongodb"
	empiremysql "EmpireBuilder/internal/empire/infra/persistence/mysql"
	"EmpireBuilder/internal/shared/gameconfig/catalog"
	"EmpireBuilder/internal/shared/infrastructure/db"
	sharedmongo "EmpireBuilder/internal/shared/infrastructure/mongo"
	"EmpireBuilder/internal/shared/logs"
	"EmpireBuilder/internal/shared/metrics"
	"EmpireBuilder/internal/shared/serverconfig"
	"EmpireBuilder/internal/shared/transport/ws"
	"EmpireBuilder/internal/shared/utils"
	"EmpireBuilder/modules/kit/logx"
)

// Components 一个进程内共享的引擎组件，server 与 empirectl 共用同一套装配。
type Components struct {
	Config   serverconfig.Config
	Catalog  *catalog.Catalog
	Service  *app.EmpireService
	Hub      *ws.Hub
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Log      logx.Logger

	closers []func(context.Context) error
}

// Build 按配置装配存储、引擎和服务。失败时已打开的连接会被关闭。
func Build(ctx context.Context, cfg serverconfig.Config, log logx.Logger) (c *Components, err error) {
	if log == nil {
		log = logx.NewZapLogger(logs.Logger())
	}
	c = &Components{Config: cfg, Hub: ws.NewHub(), Log: log}
	defer func() {
		if err != nil {
			err = multierr.Append(err, c.Close(context.Background()))
			c = nil
		}
	}()

	if err = utils.SetNode(cfg.Engine.NodeID); err != nil {
		return c, fmt.Errorf("engine.node_id: %w", err)
	}
	c.Catalog, err = catalog.Load(cfg.Engine.CatalogFile)
	if err != nil {
		return c, fmt.Errorf("load catalog: %w", err)
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(c.Registry)

	repo, err := c.openEmpireRepo(ctx)
	if err != nil {
		return c, err
	}
	battles, err := c.openBattleLog(ctx)
	if err != nil {
		return c, err
	}

	econ := economy.NewEngine(c.Catalog, cfg.Engine.ProductionInterval, cfg.Engine.MaxCatchUpTicks)
	c.Service = app.NewEmpireService(app.Deps{
		Repo:            repo,
		Battles:         battles,
		Notifier:        wshandler.NewNotifier(c.Hub),
		Economy:         econ,
		Battle:          battle.NewEngine(c.Catalog),
		Metrics:         c.Metrics,
		Logger:          log,
		ConflictRetries: cfg.Engine.ConflictRetries,
	})
	return c, nil
}

func (c *Components) openEmpireRepo(ctx context.Context) (port.EmpireRepository, error) {
	switch c.Config.Engine.Storage {
	case serverconfig.StorageMemory:
		c.Log.Warn("empire storage is in-memory, state is lost on restart")
		return memory.NewEmpireRepo(), nil
	case serverconfig.StorageMongoDB:
		client, err := sharedmongo.Open(c.Config.MongoDB, logs.Logger())
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		c.onClose(func(ctx context.Context) error { return client.Disconnect(ctx) })
		return c.mongoRepo(ctx, client)
	default:
		return nil, fmt.Errorf("unknown engine.storage %q", c.Config.Engine.Storage)
	}
}

func (c *Components) mongoRepo(ctx context.Context, client *mongo.Client) (port.EmpireRepository, error) {
	repo := empiremongo.NewEmpireRepo(client, client.Database(c.Config.MongoDB.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure empire indexes: %w", err)
	}
	return repo, nil
}

// openBattleLog 未启用 MySQL 时战报只保留在内存里。
func (c *Components) openBattleLog(ctx context.Context) (port.BattleLog, error) {
	if !c.Config.MySQL.Enabled {
		return memory.NewBattleLog(c.Config.Engine.BattleLogCapacity), nil
	}
	gormDB, err := db.Open(c.Config.MySQL)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	c.onClose(func(context.Context) error { return db.Close(gormDB) })
	return c.mysqlRepo(ctx, gormDB)
}

func (c *Components) mysqlRepo(ctx context.Context, gormDB *gorm.DB) (port.BattleLog, error) {
	repo := empiremysql.NewBattleRepo(gormDB)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate battle_report: %w", err)
	}
	return repo, nil
}

func (c *Components) onClose(fn func(context.Context) error) {
	c.closers = append(c.closers, fn)
}

// Close 逆序关闭所有连接，错误合并返回。
func (c *Components) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.closers[i](ctx))
	}
	c.closers = nil
	if err != nil {
		c.Log.Warn("close components failed", zap.Error(err))
	}
	return err
}
