package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/api"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/auth"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/broadcast"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/config"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/notify"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/session"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

func main() {
	companyCode := flag.String("tenant", "", "company code (uses cached value when empty)")
	username := flag.String("username", "", "username to log in with")
	password := flag.String("password", "", "password to log in with")
	deviceToken := flag.String("device-token", "", "push device token to register")
	headless := flag.Bool("headless", false, "log toasts instead of desktop notifications")
	flag.Parse()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)
	config.LoadConfig()

	store, err := auth.NewStore(config.AppConfig.APIURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot open credential store")
	}

	if *username != "" && *password != "" {
		tenant := *companyCode
		if tenant == "" {
			tenant = store.CompanyCode()
		}
		if _, err := store.Login(tenant, *username, *password); err != nil {
			logger.Fatal().Err(err).Msg("Login failed")
		}
	}
	if !store.IsAuthenticated() {
		logger.Fatal().Msg("Not logged in; pass -username and -password")
	}

	client := api.NewClient(config.AppConfig.APIURL, store)
	client.OnLogout(func() {
		logger.Warn().Msg("Session expired, logged out")
	})

	if *deviceToken != "" {
		// One-shot side effect; a failure must not keep the client from
		// starting.
		if err := client.UpdateDeviceToken(*deviceToken); err != nil {
			logger.Warn().Err(err).Msg("Device token registration failed")
		}
	}

	var toaster notify.Toaster = notify.DesktopToaster{}
	if *headless {
		toaster = notify.LogToaster{}
	}
	dispatcher := notify.NewDispatcher(toaster, notify.BeepLoader{})
	badges := broadcast.NewBadgeBroadcaster()

	dial := func() (realtime.Transport, error) {
		return realtime.NewRedisTransport(realtime.Options{
			AppKey:  config.AppConfig.RealtimeAppKey,
			Host:    config.AppConfig.RealtimeHost,
			Port:    config.AppConfig.RealtimePort,
			UseTLS:  config.AppConfig.RealtimeUseTLS,
			Cluster: config.AppConfig.RealtimeCluster,
		})
	}

	tasks := session.NewTaskSession(client, store, dial, dispatcher, badges)
	badgeScreen := session.NewBadgeSession(client, badges)

	tasks.Mount()
	badgeScreen.Mount()
	defer func() {
		tasks.Unmount()
		badgeScreen.Unmount()
	}()

	if err := tasks.Err(); err != nil {
		logger.Warn().Err(err).Msg("Initial task fetch failed; use the retry affordance or restart")
	}
	logger.Info().
		Int("tasks", len(tasks.Tasks())).
		Int("badges", len(badgeScreen.Earned())).
		Str("state", string(tasks.State())).
		Msg("Client ready, watching for events")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Unmounting sessions...")
}
