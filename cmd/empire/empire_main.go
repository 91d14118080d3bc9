package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"

	empireactor "EmpireBuilder/internal/empire/actor"
	"EmpireBuilder/internal/empire/bootstrap"
	"EmpireBuilder/internal/empire/interfaces"
	"EmpireBuilder/internal/shared/logs"
	"EmpireBuilder/internal/shared/metrics"
	"EmpireBuilder/internal/shared/scheduler"
	"EmpireBuilder/internal/shared/serverconfig"
	transportgrpc "EmpireBuilder/internal/shared/transport/grpc"
	transporthttp "EmpireBuilder/internal/shared/transport/http"
	"EmpireBuilder/internal/shared/transport/ws"
	"EmpireBuilder/modules/kit/logx"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfgPath := flag.String("config", "", "config file, default searches configs/conf.yml upward")
	flag.Parse()

	conf, err := serverconfig.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if err := logs.Init("empire", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("engine conf", zap.Any("engine", conf.Engine), zap.String("storage", conf.Engine.Storage))
	serverconfig.OnChange(func(c serverconfig.Config) {
		if logs.SetLevel(c.Log.Level) {
			logs.Info("log level reloaded", zap.String("level", c.Log.Level))
		}
	})

	baseLogger := logx.NewZapLogger(logs.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comp, err := bootstrap.Build(ctx, conf, baseLogger)
	if err != nil {
		logs.Fatal("build components failed", zap.Error(err))
	}

	// 每个帝国一个 actor：玩家请求与 AI 意图都经由它串行执行
	rt := empireactor.NewRuntime(comp.Service, empireactor.Options{
		AskTimeout:  conf.Engine.AskTimeout,
		IdleTimeout: conf.Engine.IdleTimeout,
	})
	if err := metrics.WatchActiveEmpires(comp.Registry, func() (int, error) {
		return rt.ActiveEmpires(context.Background())
	}); err != nil {
		logs.Fatal("register actor gauge failed", zap.Error(err))
	}

	if conf.Engine.AICount > 0 {
		created, err := comp.Service.SeedAI(ctx, conf.Engine.AICount, conf.Engine.AIDifficulty)
		if err != nil {
			logs.Fatal("seed ai empires failed", zap.Error(err))
		}
		logs.Info("ai empires ready", zap.Int("created", len(created)), zap.Int("target", conf.Engine.AICount))
	}

	sched := scheduler.New(baseLogger).WithMaxBackoff(conf.Engine.LoopMaxBackoff)
	for _, job := range comp.Jobs(rt) {
		if err := sched.Add(job); err != nil {
			logs.Fatal("add job failed", zap.String("job", job.Name), zap.Error(err))
		}
	}

	// HTTP + ws 共用一个端口
	host := conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	httpAddr := fmt.Sprintf("%s:%d", host, conf.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, nil, baseLogger)
	wsRouter := ws.NewRouter(baseLogger)

	empireModule := interfaces.New(rt, comp.Service, comp.Catalog, comp.Hub)
	for _, m := range []transporthttp.Registrar{empireModule} {
		m.HttpRegister(httpServer.Group())
	}
	for _, m := range []ws.Registrar{empireModule} {
		m.WsRegister(wsRouter)
	}
	httpServer.Mount(conf.HTTPServer.WSPath, ws.NewServer(wsRouter, conf.HTTPServer.SecureWS, baseLogger))
	httpServer.Mount("/metrics", promhttp.HandlerFor(comp.Registry, promhttp.HandlerOpts{}))

	var grpcServer *transportgrpc.Server
	if conf.GRPCServer.Enabled {
		grpcHost := conf.GRPCServer.Host
		if grpcHost == "" {
			grpcHost = "0.0.0.0"
		}
		grpcServer = transportgrpc.NewServer(fmt.Sprintf("%s:%d", grpcHost, conf.GRPCServer.Port), baseLogger)
		grpcServer.SetServing("", true)
	}

	errCh := make(chan error, 2)
	go func() {
		logs.Info("empire http server started", zap.String("addr", httpAddr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("empire http serve failed: %w", err)
		}
	}()
	if grpcServer != nil {
		go func() {
			logs.Info("empire grpc server started", zap.Int("port", conf.GRPCServer.Port))
			if err := grpcServer.Start(); err != nil && !errors.Is(err, gogrpc.ErrServerStopped) {
				errCh <- fmt.Errorf("empire grpc serve failed: %w", err)
			}
		}()
	}

	loopCtx, stopLoops := context.WithCancel(ctx)
	sched.Start(loopCtx)

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	// 先停入口和后台任务，再停 actor，最后关存储
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, httpServer.Shutdown(shutdownCtx))
	if grpcServer != nil {
		shutdownErr = multierr.Append(shutdownErr, grpcServer.Shutdown(shutdownCtx))
	}
	stopLoops()
	sched.Wait()
	rt.Shutdown()
	shutdownErr = multierr.Append(shutdownErr, comp.Close(shutdownCtx))

	if shutdownErr != nil {
		logs.Error("shutdown finished with errors", zap.Error(shutdownErr))
	} else {
		logs.Info("shutdown finished")
	}
}
