package foureyes

import (
	"database/sql"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/foureyes/foureyes/internal/config"
	"github.com/foureyes/foureyes/internal/controllers"
	"github.com/foureyes/foureyes/internal/engine"
	"github.com/foureyes/foureyes/internal/handlers"
	"github.com/foureyes/foureyes/internal/migrations"
	"github.com/foureyes/foureyes/internal/repository"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lmittmann/tint"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/go-sql-driver/mysql"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Start boots the approval engine and HTTP server with the built-in
// handler set. This call blocks until the HTTP server stops.
func Start(mux *http.ServeMux) error {

	databaseType := config.GetSystemSettingString(config.DATABASE_TYPE)
	if databaseType != config.DATABASE_TYPE_POSTGRES && databaseType != config.DATABASE_TYPE_MYSQL && databaseType != config.DATABASE_TYPE_SQLLITE {
		panic("FEYES_DATABASE_TYPE must be set to one of the following values: POSTGRES, MYSQL, SQLLITE")
	}

	var db *sql.DB
	if databaseType == config.DATABASE_TYPE_POSTGRES {
		db = setupPostgresDatabase()
	}
	if databaseType == config.DATABASE_TYPE_SQLLITE {
		db = setupSqlLiteDatabase()
	}
	if databaseType == config.DATABASE_TYPE_MYSQL {
		db = setupMysqlDatabase()
	}
	defer db.Close()

	clock := core.NewRealClock()
	actionRepo := repository.NewActionRepository(db, clock)
	userRepo := repository.NewUserRepository(db, clock)
	accountRepo := repository.NewAccountRepository(db, clock)
	promotionRepo := repository.NewPromotionRepository(db, clock)

	ensureBootstrapAdmin(userRepo)

	registry := engine.NewRegistry()
	registry.Register(handlers.NewCreateUserHandler(userRepo))
	registry.Register(handlers.NewCreateAccountHandler(accountRepo, userRepo))
	registry.Register(handlers.NewCreatePromotionHandler(promotionRepo))

	manager := engine.NewActionManager(db, registry, actionRepo, clock)

	if mux == nil {
		mux = http.NewServeMux()
	}
	actionsController := controllers.NewActionsController(manager, userRepo)
	actionsController.RegisterRoutes(mux)
	authController := controllers.NewAuthController(userRepo)
	authController.RegisterRoutes(mux)
	usersController := controllers.NewUsersController(userRepo)
	usersController.RegisterRoutes(mux)

	addr := ":" + config.GetSystemSettingString(config.SERVER_WEB_PORT)
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		addr = v
	}
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("HTTP server failed", "error", err)
		return err
	}
	return nil
}

// ensureBootstrapAdmin creates the first enabled operator when the users
// table is empty, since without one nobody can log in to make or check.
func ensureBootstrapAdmin(userRepo *repository.UserRepository) {
	username := config.GetSystemSettingString(config.BOOTSTRAP_ADMIN_USERNAME)
	existing, err := userRepo.FindByUsername(username)
	if err != nil {
		slog.Error("Bootstrap admin lookup failed", "error", err)
		os.Exit(1)
	}
	if existing != nil {
		return
	}
	password := config.GetSystemSettingString(config.BOOTSTRAP_ADMIN_PASSWORD)
	if password == "" {
		password = "admin"
		slog.Warn("FEYES_BOOTSTRAP_ADMIN_PASSWORD not set, using the default; change it")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash bootstrap password", "error", err)
		os.Exit(1)
	}
	_, err = userRepo.Save(&domain.User{
		Username: username,
		Email:    username + "@localhost",
		Password: sql.NullString{String: string(hash), Valid: true},
		Enabled:  true,
	})
	if err != nil {
		slog.Error("Failed to create bootstrap admin", "error", err)
		os.Exit(1)
	}
	slog.Info("Created bootstrap admin", "username", username)
}

func setupPostgresDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("FEYES_DATABASE_URL must be set when using the POSTGRES database type")
	}
	slog.Info("Using Postgres database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("postgres", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening Postgres database")
	dbPostgres, err := sql.Open("postgres", dbURL)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbPostgres
}

func setupSqlLiteDatabase() *sql.DB {
	fileName := config.GetSystemSettingString(config.DATABASE_SQLLITE_FILE_NAME)
	if fileName == "" {
		panic("FEYES_DATABASE_SQLLITE_FILE_NAME must be set")
	}
	dbURL := "sqlite3://" + fileName
	slog.Info("Using SQLite database", "file", fileName)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("sqllite3", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening SQLite database")
	dbSqlLite, err := sql.Open("sqlite3", fileName)
	if err != nil {
		log.Fatalf("Failed to open SQLite DB: %v", err)
	}
	// SQLite allows one writer; a single pooled connection keeps the
	// decision transactions from tripping over SQLITE_BUSY.
	dbSqlLite.SetMaxOpenConns(1)
	if err := dbSqlLite.Ping(); err != nil {
		log.Fatalf("Failed to ping SQLite DB: %v", err)
	}
	return dbSqlLite
}

func setupMysqlDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("FEYES_DATABASE_URL must be set when using the MYSQL database type")
	}
	if !strings.Contains(dbURL, "parseTime=true") {
		panic("FEYES_DATABASE_URL must contain 'parseTime=true' for MySQL")
	}
	if !strings.HasPrefix(dbURL, "mysql://") {
		panic("FEYES_DATABASE_URL must start with 'mysql://' for MySQL")
	}

	slog.Info("Using MySQL database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("mysql", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening MySQL database")
	dbMysql, err := sql.Open("mysql", strings.Replace(dbURL, "mysql://", "", 1))
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbMysql
}

func runMigrationsFromEmbed(migrationsPath string, dbURL string) error {
	sub, err := fs.Sub(migrations.FS, migrationsPath)
	if err != nil {
		return err
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func SetupLogger() {
	w := os.Stderr
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}
