package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sthuthi2002/DevSecOps-project/internal/api"
	"github.com/sthuthi2002/DevSecOps-project/internal/report"
	"github.com/sthuthi2002/DevSecOps-project/internal/security"
	"github.com/sthuthi2002/DevSecOps-project/internal/shared"
	"github.com/sthuthi2002/DevSecOps-project/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "generate":
		generateCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "history":
		historyCmd(os.Args[2:])
	case "user-add":
		userAddCmd(os.Args[2:])
	case "version":
		fmt.Println("secreport", report.Version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `secreport – DevSecOps build report generator

Usage:
  secreport generate [--out security-report.html] [--build N] [--db ./secreport.db] [--config ./secreport.yaml]
  secreport serve    [--addr :8080] [--db ./secreport.db] [--config ./secreport.yaml]
  secreport history  [--limit 20]   [--db ./secreport.db] [--config ./secreport.yaml]
  secreport user-add --username NAME --password PW [--role viewer|admin] [--db ./secreport.db]
  secreport version
`)
}

func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	outPath := fs.String("out", "", "Report output path")
	dbPath := fs.String("db", "", "SQLite database path")
	build := fs.String("build", "", "Build identifier (default: BUILD_NUMBER env)")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if *outPath == "" {
		*outPath = cfg.Report.OutPath
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *build == "" {
		*build = report.BuildFromEnv()
	}

	rep := report.New(time.Now(), *build, cfg.Report.Artifacts)
	doc := report.HTML(&rep)
	if err := report.WriteHTML(*outPath, &rep); err != nil {
		slog.Error("write report", "path", *outPath, "err", err)
		os.Exit(1)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}
	if err := db.SaveReport(&rep, *outPath, doc); err != nil {
		slog.Error("db save report error", "err", err)
		os.Exit(1)
	}

	slog.Info("generate complete",
		"report", rep.ID,
		"build", rep.Build,
		"html", *outPath,
		"db", filepath.Clean(*dbPath),
	)
	fmt.Printf("Security report generated: %s\n", *outPath)
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", "", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *addr == "" {
		*addr = cfg.Server.Addr
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	go func() {
		for range time.Tick(time.Hour) {
			if n, err := db.DeleteExpiredSessions(); err == nil && n > 0 {
				slog.Debug("purged sessions", "n", n)
			}
		}
	}()

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		SessionDuration: time.Duration(cfg.Server.SessionMinutes) * time.Minute,
		Artifacts:       cfg.Report.Artifacts,
	}
	slog.Info("serving", "addr", *addr, "db", filepath.Clean(*dbPath))
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

func historyCmd(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	dbPath := fs.String("db", "", "SQLite database path")
	limit := fs.Int("limit", 20, "Max rows to list")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	rows, err := db.ListReports(*limit, 0)
	if err != nil {
		slog.Error("db list error", "err", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("No reports generated yet.")
		return
	}
	fmt.Printf("%-44s  %-20s  %-12s  %s\n", "ID", "GENERATED", "BUILD", "PATH")
	for _, r := range rows {
		fmt.Printf("%-44s  %-20s  %-12s  %s\n",
			r.ID,
			r.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			r.Build,
			r.OutPath,
		)
	}
}

func userAddCmd(args []string) {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	dbPath := fs.String("db", "", "SQLite database path")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password")
	role := fs.String("role", "viewer", "Role: viewer|admin")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "user-add: --username and --password are required")
		os.Exit(2)
	}
	if *role != "viewer" && *role != "admin" {
		fmt.Fprintln(os.Stderr, "user-add: --role must be viewer or admin")
		os.Exit(2)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		slog.Error("hash password", "err", err)
		os.Exit(1)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	id, err := db.CreateUser(*username, hash, *role)
	if err != nil {
		slog.Error("db create user error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("User created: %s (id=%d, role=%s)\n", *username, id, *role)
}
