package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/clock"
	"meetboard/cmd/internal/codec"
	"meetboard/cmd/internal/config"
	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain/calendar"
	"meetboard/cmd/internal/domain/sqlite"
	"meetboard/cmd/internal/domain/sqlite/repository"
	"meetboard/cmd/internal/integration/discord"
	"meetboard/cmd/internal/integration/google/gcal"
	"meetboard/cmd/internal/jobs"
	"meetboard/cmd/internal/render"
	"meetboard/cmd/internal/routes"
	"meetboard/cmd/internal/service"
	"meetboard/cmd/internal/session"
	"meetboard/cmd/internal/tracker"
	"meetboard/cmd/internal/utils"
	"meetboard/cmd/internal/utils/validators"
)

func main() {
	log.SetHeader("${time_rfc3339} ${level} ${short_file}:${line}")
	log.SetLevel(log.INFO)

	validate := validator.New()

	cfg, err := config.Load(validate)
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	norm, err := datetime.New(cfg.Timezone)
	if err != nil {
		log.Fatal("failed to load timezone: ", err)
	}
	validators.Register(validate, norm)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	// External clients
	calendarClient, err := gcal.NewClient(ctx, cfg.GoogleCredentialsConfig())
	if err != nil {
		log.Fatal("failed to initialize calendar client: ", err)
	}
	chat, err := discord.NewClient(cfg.DiscordToken)
	if err != nil {
		log.Fatal("failed to initialize discord client: ", err)
	}
	if err := chat.Open(); err != nil {
		log.Fatal("failed to connect to discord: ", err)
	}
	defer chat.Close()

	clk := clock.NewSystem()

	// Getting repositories
	meetingRepo := calendar.NewMeetingRepository(calendarClient, codec.New(norm), cfg.CalendarID)
	boardRepo := repository.NewBoardSlotRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Trackers
	reminders := tracker.NewReminderTracker(clk, tracker.WithReminderStore(reminderRepo))
	if err := reminders.Restore(); err != nil {
		log.Warnf("could not restore reminder history, reminders may repeat: %v", err)
	}
	boards, err := tracker.NewBoardTracker(boardRepo, clk)
	if err != nil {
		log.Fatal("failed to load board state: ", err)
	}

	// Jobs
	renderer := render.New(norm)
	reminderJob := jobs.NewReminderJob(meetingRepo, chat, reminders, renderer, clk)
	boardJob := jobs.NewBoardJob(meetingRepo, chat, boards, renderer, norm, clk, cfg.BoardChannelID)
	scheduler := jobs.NewScheduler(norm.Location(), reminderJob, boardJob, reminders, cfg.Schedule())

	// Getting services
	meetingService := service.NewMeetingService(meetingRepo, chat, session.NewDraftStore(clk, session.DefaultDraftTTL), norm, validate,
		service.WithClock(clk), service.WithBoardRefresher(scheduler))

	// Getting routes
	meetingRoutes := routes.NewMeetingDefault(meetingService, norm.Location())
	adminRoutes := routes.NewAdminDefault(scheduler, reminders, boards)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(utils.TokenMiddleware([]byte(cfg.JWTSecret)))
	routes.Mount(e, meetingRoutes, adminRoutes)

	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("failed to start scheduler: ", err)
	}

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	scheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop http server: ", err)
	}
}
