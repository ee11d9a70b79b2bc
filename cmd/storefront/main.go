package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"storefront/pkg/catalog/infrastructure/staticrepo"

	catalogservice "storefront/pkg/catalog/domain/service"
	cartmodel "storefront/pkg/cart/domain/model"
	"storefront/pkg/cart/infrastructure/memory"
	"storefront/pkg/cart/infrastructure/mysql"
	cartredis "storefront/pkg/cart/infrastructure/redis"
	"storefront/pkg/common/domain"
	"storefront/pkg/common/notify"
	"storefront/pkg/quotation/infrastructure/pdf"
	"storefront/pkg/transport"
)

const appID = "storefront"

type config struct {
	ServeRESTAddress string        `envconfig:"serve_rest_address" default:":8080"`
	CatalogPath      string        `envconfig:"catalog_path" default:"data/products.json"`
	CatalogLoadDelay time.Duration `envconfig:"catalog_load_delay" default:"0s"`
	CartStorage      string        `envconfig:"cart_storage" default:"memory"`
	DatabaseDSN      string        `envconfig:"database_dsn"`
	RedisAddress     string        `envconfig:"redis_address" default:"localhost:6379"`
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  appID,
		Usage: "product catalog, volume-priced cart and quotation service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "validate-catalog",
				Usage:  "check the catalog file for malformed products and price break schedules",
				Action: validateCatalog,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("application terminated")
	}
}

func parseConfig() (*config, error) {
	cfg := new(config)
	if err := envconfig.Process(appID, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(_ *cli.Context) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	catalogRepo, err := staticrepo.NewFromFile(cfg.CatalogPath, cfg.CatalogLoadDelay)
	if err != nil {
		return err
	}

	cartRepo, closeRepo, err := newCartRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	server := transport.NewServer(
		catalogservice.NewCatalogService(catalogRepo),
		cartRepo,
		&logDispatcher{},
		notify.NewLogNotifier(),
		pdf.New(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{Addr: cfg.ServeRESTAddress, Handler: server.Router()}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("address", cfg.ServeRESTAddress).Info("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newCartRepository(cfg *config) (cartmodel.Repository, func(), error) {
	switch cfg.CartStorage {
	case "memory":
		return memory.New(), func() {}, nil
	case "mysql":
		if err := mysql.Migrate(cfg.DatabaseDSN); err != nil {
			return nil, nil, err
		}
		repo, err := mysql.New(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case "redis":
		repo := cartredis.New(cfg.RedisAddress)
		return repo, func() { _ = repo.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart storage %q", cfg.CartStorage)
	}
}

func validateCatalog(_ *cli.Context) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	products, err := staticrepo.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}

	invalid := 0
	for _, p := range products {
		if err := p.Validate(); err != nil {
			invalid++
			log.WithFields(log.Fields{"product": p.ID, "name": p.Name}).Error(err)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d products failed validation", invalid, len(products))
	}
	log.WithField("products", len(products)).Info("catalog is valid")
	return nil
}

// logDispatcher is the default event sink: every domain event is logged,
// none are fanned out further.
type logDispatcher struct{}

func (d *logDispatcher) Dispatch(event domain.Event) error {
	log.WithField("event", event.Type()).Info("domain event")
	return nil
}

var _ domain.EventDispatcher = (*logDispatcher)(nil)
