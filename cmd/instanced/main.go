package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dropDatabas3/instancestore/internal/config"
	"github.com/dropDatabas3/instancestore/internal/dbconfig"
	"github.com/dropDatabas3/instancestore/internal/disk"
	httpserver "github.com/dropDatabas3/instancestore/internal/http/server"
	"github.com/dropDatabas3/instancestore/internal/infra/cachefactory"
	"github.com/dropDatabas3/instancestore/internal/managed"
	"github.com/dropDatabas3/instancestore/internal/metrics"
	"github.com/dropDatabas3/instancestore/internal/mount"
	"github.com/dropDatabas3/instancestore/internal/observability/logger"
	"github.com/dropDatabas3/instancestore/internal/storage"
)

var version = "dev"

// app es todo lo que arma bootstrap a partir de la configuración.
type app struct {
	cfg        *config.Config
	membership *managed.Membership
	storage    *storage.VirtualStorage
	mounts     *mount.Registry
	closers    []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
	_ = logger.Sync()
}

func bootstrap(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.Log.ServiceName,
		Version:     version,
	})
	a := &app{cfg: cfg}

	var cc cachefactory.Config
	cc.Kind = cfg.Cache.Kind
	cc.Redis.Addr = cfg.Cache.Redis.Addr
	cc.Redis.Password = cfg.Cache.Redis.Password
	cc.Redis.DB = cfg.Cache.Redis.DB
	cc.Redis.Prefix = cfg.Cache.Redis.Prefix
	cc.Memory.DefaultTTL = cfg.Cache.Memory.DefaultTTL
	c, err := cachefactory.Open(cc)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	a.closers = append(a.closers, c.Close)

	d := disk.OS()
	a.membership = managed.New(managed.Options{
		HostName:           cfg.Managed.HostName,
		StartDir:           cfg.Managed.StartDir,
		ManifestFile:       cfg.Managed.ManifestFile,
		Cache:              c,
		CacheTTL:           config.Duration(cfg.Managed.CacheTTL),
		CacheKeyPrefix:     cfg.Managed.CachePrefix,
		AlwaysRediscover:   cfg.App.Debug,
		ConsoleTimeout:     config.Duration(cfg.Managed.ConsoleTimeout),
		Disk:               d,
		PrivateLogPathName: cfg.Managed.LogDirName,
		LocalDatabase:      cfg.Database,
	})
	if _, err := a.membership.Initialize(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("managed bootstrap: %w", err)
	}

	a.storage = storage.New(a.membership, d, storage.Config{
		LocalPath:         cfg.Storage.LocalPath,
		PrivatePathName:   cfg.Storage.PrivatePathName,
		SnapshotPathName:  cfg.Storage.SnapshotPathName,
		TempDir:           cfg.Storage.TempDir,
		MaintenanceMarker: cfg.Storage.MaintenanceMarker,
	})
	a.mounts = mount.New(mount.RegistryConfig{
		Connections:   cfg.Mounts.Connections,
		DefaultDriver: cfg.Mounts.DefaultDriver,
		Factory:       mount.DriverFactory{Disk: d},
	})
	return a, nil
}

func main() {
	_ = godotenv.Load(".env")

	var cfgPath, outPath string
	var checkDB bool

	root := &cobra.Command{
		Use:           "instanced",
		Short:         "Resuelve la pertenencia al cluster y sirve la superficie operativa",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "Path del config.yaml (env CONFIG_PATH)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Bootstrap de la instancia y servidor HTTP operativo",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			log := logger.Named("instanced")

			if err := metrics.Register(nil); err != nil {
				return fmt.Errorf("metrics: %w", err)
			}

			if checkDB {
				if err := pingDatabase(ctx, a.membership.DatabaseConfig(), log); err != nil {
					return err
				}
			}

			for _, name := range sortedNames(a.cfg.Mounts.Connections) {
				if _, err := a.mounts.Mount(name, nil); err != nil {
					log.Warn("static mount unavailable", logger.Mount(name), logger.Err(err))
				}
			}

			log.Info("service up",
				logger.String("addr", a.cfg.Server.Addr),
				logger.Bool("managed", a.membership.IsManagedInstance()),
				logger.InstanceName(a.membership.InstanceName()),
			)
			return httpserver.Start(ctx, a.cfg.Server.Addr, httpserver.NewRouter(httpserver.Deps{
				Instance: a.membership,
				Mounts:   a.mounts,
				Storage:  a.storage,
			}))
		},
	}
	serveCmd.Flags().BoolVar(&checkDB, "check-db", false, "Abre un pool contra la DB resuelta antes de servir")

	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "Imprime los paths resueltos de la instancia (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := map[string]any{
				"managed":      a.membership.IsManagedInstance(),
				"instance":     a.membership.InstanceName(),
				"storage_root": a.storage.RootStoragePath(),
				"storage":      a.storage.StoragePath(""),
				"private":      a.storage.PrivatePath(""),
				"owner":        a.storage.OwnerPrivatePath(""),
				"snapshots":    a.storage.SnapshotPath(),
			}
			if p, err := a.membership.LogPath(); err == nil {
				out["logs"] = p
			}
			if db := dbconfig.FromMap(a.membership.DatabaseConfig()); !db.Empty() {
				out["database"] = db.Target()
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			b = append(b, '\n')
			if outPath != "" {
				return disk.OS().WriteFileAtomic(outPath, b, 0o644)
			}
			_, err = os.Stdout.Write(b)
			return err
		},
	}
	pathsCmd.Flags().StringVar(&outPath, "out", "", "Escribe el JSON en este archivo en lugar de stdout")

	root.AddCommand(serveCmd, pathsCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func pingDatabase(ctx context.Context, m map[string]any, log *zap.Logger) error {
	db := dbconfig.FromMap(m)
	if !db.IsPostgres() {
		log.Info("database check skipped", logger.Driver(db.Driver))
		return nil
	}
	pool, err := db.Pool(ctx)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database %s: %w", db.Target(), err)
	}
	log.Info("database reachable", logger.String("target", db.Target()))
	return nil
}

func sortedNames(m map[string]mount.Config) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
