package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Raof-Rasti/timetabling-project/internal/config"
	"github.com/Raof-Rasti/timetabling-project/internal/server"
	"github.com/Raof-Rasti/timetabling-project/internal/store"
	"github.com/Raof-Rasti/timetabling-project/internal/util"
)

var (
	port    = flag.Int("port", 0, "listen port (config.toml wins unless port is unset there)")
	devMode = flag.Bool("dev", false, "development mode")
	apiBase = flag.String("api", "", "scheduling service base URL (overrides config)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Timetabling Front-End Gateway")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// CLI flags override unset config values
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *apiBase != "" {
		cfg.API.BaseURL = *apiBase
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	fmt.Printf("data directory: %s\n", dataDir)
	fmt.Printf("scheduling service: %s\n", cfg.API.BaseURL)

	st, err := store.New(filepath.Join(dataDir, "frontend.db"))
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer st.Close()

	srv := server.NewServer(cfg, st)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("listening on port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Printf("opening browser: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("could not open browser, visit %s manually\n", url)
		}
	} else {
		fmt.Printf("visit %s\n", url)
	}

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down...")
}
