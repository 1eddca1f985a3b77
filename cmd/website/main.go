package main

//go:generate sh -c "cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" app/static/js/wasm_exec.js"
//go:generate sh -c "cd ../galleryapp && GOOS=js GOARCH=wasm go build -o ../website/app/static/wasm/galleryapp.wasm ."

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/imagegallery/cmd/website/internal/configuration"
	"github.com/adampresley/imagegallery/cmd/website/internal/home"
	"github.com/adampresley/imagegallery/cmd/website/internal/proxy"
	"github.com/adampresley/imagegallery/cmd/website/internal/thumbnails"
	"github.com/adampresley/imagegallery/pkg/cache"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

var (
	Version string = "development"
	appName string = "imagegallery"

	//go:embed app
	appFS embed.FS

	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	config configuration.Config

	/* Services */
	db                    *sqlz.DB
	objectStore           cache.ObjectStorer
	renderer              rendering.TemplateRenderer
	thumbnailIndexService cache.ThumbnailIndexServicer
	thumbnailService      cache.ThumbnailServicer

	/* Controllers */
	homeController      home.HomeHandlers
	proxyController     proxy.ProxyHandlers
	thumbnailController thumbnails.ThumbnailHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("backendUrl", config.BackendURL),
		slog.String("awsEndpointUrl", config.AwsEndpointUrl),
		slog.String("awsRegion", config.AwsRegion),
	)

	slog.Debug("setting up...")

	/*
	 * Setup services
	 */
	binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	if db, err = sqlz.Connect("sqlite", config.DSN); err != nil {
		panic(err)
	}

	migrateDatabase()

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		panic(err)
	}

	objectStore = cache.NewS3ObjectStore(cache.S3ObjectStoreConfig{
		Bucket:   config.AwsBucket,
		Region:   config.AwsRegion,
		S3Client: s3Client,
	})

	if err = objectStore.EnsureBucket(); err != nil {
		panic(err)
	}

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	thumbnailIndexService = cache.NewThumbnailIndexService(cache.ThumbnailIndexServiceConfig{
		DB: db,
	})

	thumbnailService = cache.NewThumbnailService(cache.ThumbnailServiceConfig{
		BackendURL:     config.BackendURL,
		HTTPClient:     &http.Client{Timeout: time.Minute},
		Index:          thumbnailIndexService,
		Store:          objectStore,
		Folder:         config.ThumbnailFolder,
		ExpirationDays: config.ThumbnailExpirationDays,
		MaxWorkers:     config.MaxThumbnailWorkers,
	})

	/*
	 * Setup controllers
	 */
	homeController = home.NewHomeController(home.HomeControllerConfig{
		Config:   &config,
		Renderer: renderer,
	})

	if proxyController, err = proxy.NewProxyController(proxy.ProxyControllerConfig{
		BackendURL: config.BackendURL,
	}); err != nil {
		panic(err)
	}

	thumbnailController = thumbnails.NewThumbnailController(thumbnails.ThumbnailControllerConfig{
		DefaultSize:      cache.DefaultThumbnailSize,
		ThumbnailService: thumbnailService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	accessLog := newAccessLogMiddleware(
		[]string{
			"/static",
			"/heartbeat",
		},
	)

	logged := []mux.MiddlewareFunc{accessLog}

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /{$}", HandlerFunc: homeController.SignInPage, Middlewares: logged},
		{Path: "GET /spa", HandlerFunc: homeController.GalleryPage, Middlewares: logged},
		{Path: "POST /{$}", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "GET /home", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "POST /home", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "GET /album", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "POST /album", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "POST /image", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "GET /uploads", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "HEAD /uploads", HandlerFunc: proxyController.Forward, Middlewares: logged},
		{Path: "GET /thumbnails", HandlerFunc: thumbnailController.GetThumbnail, Middlewares: logged},
		{Path: "POST /thumbnails/prewarm", HandlerFunc: thumbnailController.Prewarm, Middlewares: logged},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the thumbnail cleanup job
	 */
	thumbnailService.StartCleanupRoutine(24 * time.Hour)
	defer thumbnailService.StopCleanupRoutine()

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func migrateDatabase() {
	var (
		err  error
		dirs []fs.DirEntry
		b    []byte
	)

	if dirs, err = sqlMigrationsFs.ReadDir("sql-migrations"); err != nil {
		panic(err)
	}

	for _, d := range dirs {
		if d.IsDir() || !strings.HasPrefix(d.Name(), "commit") {
			continue
		}

		slog.Debug("running migration", "name", d.Name())

		if b, err = fs.ReadFile(sqlMigrationsFs, filepath.Join("sql-migrations", d.Name())); err != nil {
			panic(err)
		}

		if err = runSqlScript(b); err != nil && !isIgnorableError(err) {
			panic(err)
		}
	}
}

func runSqlScript(script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	message := err.Error()
	return strings.Contains(message, "duplicate column") || strings.Contains(message, "already exists")
}
