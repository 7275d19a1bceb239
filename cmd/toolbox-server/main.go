package main

import (
	"flag"
	"log/slog"
	"toolbox-backend/lib/configutil"
	"toolbox-backend/lib/serviceutil"
	"toolbox-backend/services/ai"
	"toolbox-backend/services/cardgen"
	"toolbox-backend/services/coupons"
	"toolbox-backend/services/facebook"
	"toolbox-backend/services/instagram"
	"toolbox-backend/services/shortener"
	"toolbox-backend/services/social"
	"toolbox-backend/services/spotify"
	"toolbox-backend/services/translate"
	"toolbox-backend/services/tts"
	"toolbox-backend/services/weather"
	"toolbox-backend/services/whois"
	"toolbox-backend/services/worldtime"
	"toolbox-backend/services/youtube"

	"github.com/pkg/profile"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the server config.")
	cpuProfile := flag.Bool("profile", false, "Write a cpu profile to .dev/profile until shutdown.")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(".dev/profile"),
			profile.NoShutdownHook,
		).Stop()
	}

	ctx := serviceutil.SignalContext()

	configutil.LoadDotenv()
	InitTelemetry(ctx, *verbose)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	e := serviceutil.NewEcho(serviceutil.ServerOptions{
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	})
	dumps := dumpOutputs{verbose: *verbose}

	bins, err := OpenBinDb(ctx, cfg.BinDb)
	if err != nil {
		serviceutil.Fatal("init bindb", err)
	}
	bins.Register(e.Group("/bindb"))
	cardgen.NewService(bins).Register(e.Group("/ccgen"))

	store, err := OpenShortenerStore(ctx, cfg.Shortener)
	if err != nil {
		serviceutil.Fatal("init shortener store", err)
	}
	defer store.Close()
	shortener.NewService(store, cfg.BaseUrl).Register(e.Group("/shortner"))

	ttsService, err := tts.NewService(tts.Options{
		Dir:    cfg.TmpDir,
		Expiry: cfg.ttsExpiry(),
		Output: dumps.For("tts"),
	})
	if err != nil {
		serviceutil.Fatal("init tts", err)
	}
	ttsService.Register(e.Group("/tts"), cfg.BaseUrl)
	err = StartJobs(ctx, ttsService)
	if err != nil {
		serviceutil.Fatal("start jobs", err)
	}

	couponService, err := coupons.NewService(coupons.Options{Output: dumps.For("coupons")})
	if err != nil {
		serviceutil.Fatal("init coupons", err)
	}
	couponService.Register(e.Group("/cpn"))

	if cfg.Spotify.ClientId == "" || cfg.Spotify.ClientSecret == "" {
		slog.WarnContext(ctx, "spotify credentials are not configured, /sp will fail")
	}
	spotify.NewService(spotify.Options{
		ClientId:     cfg.Spotify.ClientId,
		ClientSecret: cfg.Spotify.ClientSecret,
		Output:       dumps.For("spotify"),
	}).Register(e.Group("/sp"))

	ai.NewService(ai.Options{Output: dumps.For("ai")}).Register(e.Group("/ai"))
	facebook.NewService(facebook.Options{Output: dumps.For("facebook")}).Register(e.Group("/fb"))
	instagram.NewService(instagram.Options{Output: dumps.For("instagram")}).Register(e.Group("/insta"))
	social.NewService(social.Options{Output: dumps.For("social")}).Register(e.Group("/thrd"))
	youtube.NewService(youtube.Options{Output: dumps.For("youtube")}).Register(e.Group("/yt"))
	translate.NewService(translate.Options{Output: dumps.For("translate")}).Register(e.Group("/tr"))
	weather.NewService(weather.Options{Output: dumps.For("weather")}).Register(e.Group("/wth"))
	whois.NewService(whois.Options{
		CacheSize: cfg.Whois.CacheSize,
		CacheTTL:  cfg.whoisCacheTtl(),
		Output:    dumps.For("whois"),
	}).Register(e.Group("/dmn"))
	worldtime.NewService().Register(e.Group("/time"))

	err = serviceutil.StartHttpServer(ctx, cfg.Port, e)
	if err != nil {
		slog.Error("http server stopped", "err", err)
	}
}
