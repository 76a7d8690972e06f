package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/reform.v1"
	"gopkg.in/reform.v1/dialects/postgresql"

	"github.com/hmcts/ccpay-payment-app-sub004/engine"
	"github.com/hmcts/ccpay-payment-app-sub004/httputils"
	"github.com/hmcts/ccpay-payment-app-sub004/idempotency"
	"github.com/hmcts/ccpay-payment-app-sub004/provider/govpay"
	"github.com/hmcts/ccpay-payment-app-sub004/provider/liberata"
	"github.com/hmcts/ccpay-payment-app-sub004/services/payments"
)

var (
	VERSION = "dev"

	onLoggerDev         = flag.Bool("logger-dev", false, "Enable development logger.")
	onLoggerDebugLevelF = flag.Bool("logger-debug-level", false, "Enable debug level logger.")
	apportionOffF       = flag.Bool("apportion-off", false, "Disable the fee apportionment engine.")
)

func main() {
	flag.Parse()
	level := "INFO"
	if *onLoggerDebugLevelF {
		level = "DEBUG"
	}
	defaultLogger(level, *onLoggerDev)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	zap.L().Info("Starting payments service...", zap.String("version", VERSION))
	defer func() { zap.L().Info("Done.") }()

	sqlDB := setupPostgres(os.Getenv("PG_CONN"), 0, 5, 5)
	db := reform.NewDB(sqlDB, postgresql.Dialect, reform.NewPrintfLogger(zap.L().Sugar().Debugf))
	if _, err := db.Exec("SELECT version();"); err != nil {
		zap.L().Panic("Failed to check version to PostgreSQL.", zap.Error(err))
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}
	natsConn, err := nats.Connect(
		natsURL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		zap.L().Panic("Failed connect to NATS.", zap.Error(err))
	}
	defer natsConn.Drain()
	nc, err := nats.NewEncodedConn(natsConn, nats.JSON_ENCODER)
	if err != nil {
		zap.L().Panic("Failed create encoded NATS connection.", zap.Error(err))
	}
	zap.L().Info("NATS - configured!", zap.String("url", natsURL))

	accounts := liberata.NewProvider(liberata.Config{
		EntrypointURL: os.Getenv("LIBERATA_ENTRYPOINT_URL"),
		APIKey:        os.Getenv("LIBERATA_API_KEY"),
	})
	gateway := govpay.NewClient(govpay.Config{
		EntrypointURL: os.Getenv("GOVPAY_ENTRYPOINT_URL"),
		APIKey:        os.Getenv("GOVPAY_API_KEY"),
	})

	ledger := engine.NewLedgerManager(db)
	guard := idempotency.NewGuard(idempotency.NewReformStore(db))

	service := payments.NewService(ledger, guard, accounts, gateway, nc, payments.Config{
		ApportionEnabled: !*apportionOffF,
		LegacyServices:   strings.Split(os.Getenv("LEGACY_SERVICES"), ","),
	})
	prometheus.MustRegister(payments.Metrics()...)

	if err := payments.SubToNATS(nc, service); err != nil {
		zap.L().Panic("Failed subscribe to submission subjects.", zap.Error(err))
	}
	zap.L().Info("Payments worker - subscribed!")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	httpServer := &http.Server{Addr: ":" + port, Handler: httputils.RunDebugMux()}
	zap.L().Info("Debug mux - will listen to address", zap.String("address", httpServer.Addr))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	// graceful stop
	go func() {
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			zap.L().Error("Failed shutdown debug mux.", zap.Error(err))
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zap.L().Panic("Failed to serve.", zap.Error(err))
	}
}

// Configure configure zap logger.
//
// Available values of level:
// - DEBUG
// - INFO
// - WARN
// - ERROR
// - DPANIC
// - PANIC
// - FATAL
func defaultLogger(levelSet string, dev bool) {
	level := zapcore.InfoLevel
	if err := level.Set(levelSet); err != nil {
		panic(err)
	}
	config := zap.NewProductionConfig()
	if dev {
		config = zap.NewDevelopmentConfig()
	}
	config.Level.SetLevel(level)
	l, err := config.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(l)
	zap.RedirectStdLog(l.Named("stdlog"))
}

func setupPostgres(conn string, maxLifetime time.Duration, maxOpen, maxIdle int) *sql.DB {
	sqlDB, err := sql.Open("postgres", conn)
	if err != nil {
		zap.L().Panic("Failed to connect to PostgreSQL.", zap.Error(err))
	}
	sqlDB.SetConnMaxLifetime(maxLifetime)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if err := sqlDB.Ping(); err != nil {
		zap.L().Panic("Failed to ping PostgreSQL.", zap.Error(err))
	}
	return sqlDB
}
