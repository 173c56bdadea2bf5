package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-costeo/docs"
	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
	appuom "github.com/jhoicas/inventario-costeo/internal/application/uom"
	dominv "github.com/jhoicas/inventario-costeo/internal/domain/inventory"
	"github.com/jhoicas/inventario-costeo/internal/domain/repository"
	"github.com/jhoicas/inventario-costeo/internal/infrastructure/catalogsync"
	"github.com/jhoicas/inventario-costeo/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-costeo/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-costeo/internal/interfaces/http"
	"github.com/jhoicas/inventario-costeo/pkg/config"
	"github.com/jhoicas/inventario-costeo/pkg/logger"
)

// stores agrupa los adaptadores de persistencia elegidos por INVENTORY_STORE.
type stores struct {
	tx        inventory.TxRunner
	units     repository.UnitRepository
	materials repository.MaterialRepository
	recipes   repository.RecipeProvider
	locations repository.LocationRepository
	records   repository.InventoryRecordRepository
	events    repository.MutationEventRepository
	counts    repository.InventoryCountRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Inventory.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer st.close()

	unitCache := appuom.NewUnitCatalogCache(st.units, cfg.Inventory.UnitCacheTTL)
	resolver := appuom.NewResolver(unitCache)
	ledger := inventory.NewLedger(resolver, dominv.Rounder{
		Places:     int32(cfg.Inventory.CurrencyDecimals),
		CostPlaces: int32(cfg.Inventory.CostDecimals),
	})

	var notifier inventory.CatalogSyncNotifier = catalogsync.NewLogNotifier(log.Component("catalogsync"))
	if cfg.CatalogSync.URL != "" {
		notifier = catalogsync.NewWebhookNotifier(cfg.CatalogSync)
	}
	ucLog := log.Component("inventory")

	registerMovementUC := inventory.NewRegisterMovementUseCase(st.tx, ledger, st.materials, st.locations, notifier, ucLog)
	transferUC := inventory.NewTransferCoordinator(st.tx, ledger, st.materials, st.locations, notifier, ucLog)
	productionUC := inventory.NewProductionUseCase(st.tx, ledger, st.materials, st.locations, st.recipes, notifier, ucLog)
	countUC := inventory.NewCountReconciler(st.tx, ledger, st.materials, st.locations, st.records, st.counts, notifier, ucLog)
	valuationUC := inventory.NewValuationUseCase(st.records, st.events, st.materials, st.locations, resolver)
	unitUC := appuom.NewUnitUseCase(unitCache, resolver)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(docsMiddleware())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Units:            unitUC,
		RegisterMovement: registerMovementUC,
		Transfers:        transferUC,
		Production:       productionUC,
		Counts:           countUC,
		Valuation:        valuationUC,
		JWTSecret:        cfg.JWT.Secret,
		ServiceName:      cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// docsMiddleware sirve la UI en /docs y la especificación embebida en /docs/swagger.json,
// sin depender del directorio de trabajo del proceso.
func docsMiddleware() fiber.Handler {
	return swagger.New(swagger.Config{
		BasePath:    "/",
		FilePath:    "./docs/swagger.json",
		FileContent: docs.SwaggerJSON,
		Path:        "docs",
		Title:       "Inventario Costeo API",
	})
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Inventory.Store == config.StoreMemory {
		// Solo desarrollo: catálogo vacío salvo las unidades del sistema.
		store := memory.NewStore()
		memory.SeedSystemUnits(store)
		materials := memory.NewMaterialRepository(store)
		return &stores{
			tx:        memory.NewTxRunner(store),
			units:     memory.NewUnitRepository(store),
			materials: materials,
			recipes:   materials,
			locations: memory.NewLocationRepository(store),
			records:   memory.NewInventoryRecordRepository(store),
			events:    memory.NewMutationEventRepository(store),
			counts:    memory.NewInventoryCountRepository(store),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	materials := postgres.NewMaterialRepository(pool)
	return &stores{
		tx:        postgres.NewTxRunner(pool),
		units:     postgres.NewUnitRepository(pool),
		materials: materials,
		recipes:   materials,
		locations: postgres.NewLocationRepository(pool),
		records:   postgres.NewInventoryRecordRepository(pool),
		events:    postgres.NewMutationEventRepository(pool),
		counts:    postgres.NewInventoryCountRepository(pool),
		close:     pool.Close,
	}, nil
}
