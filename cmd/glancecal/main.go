package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"glancecal/internal/config"
	"glancecal/internal/ics"
	appLog "glancecal/internal/log"
	"glancecal/internal/model"
	"glancecal/internal/render"
	"glancecal/internal/schedule"
)

type flagConfig struct {
	configPath string
	view       string
	date       string
	upcoming   int
	watch      bool
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	view := conf.View
	if flags.view != "" {
		view = flags.view
	}

	opts := schedule.Options{
		Location:            conf.Location(),
		WeekStart:           conf.WeekStartDay(),
		MonthPreview:        conf.MonthPreview,
		MinDuration:         time.Duration(conf.MinDurationMinutes) * time.Minute,
		UpcomingHorizonDays: conf.HorizonDays,
	}

	if _, err := resolveAnchor(flags.date, time.Now(), opts.Location); err != nil {
		appLog.Error("invalid -date value", err, "date", flags.date)
		os.Exit(1)
	}

	sources := conf.Sources
	for i, path := range flag.Args() {
		sources = append(sources, config.SourceConfig{Path: path, ID: fmt.Sprintf("arg%d", i)})
	}

	run := func() {
		anchor, err := resolveAnchor(flags.date, time.Now(), opts.Location)
		if err != nil {
			appLog.Error("invalid -date value", err, "date", flags.date)
			return
		}
		events := loadEvents(sources, opts)
		out, err := buildAndRender(events, view, anchor, flags.upcoming, opts)
		if err != nil {
			appLog.Error("failed to build view", err, "view", view)
			return
		}
		fmt.Println(out)
	}

	run()

	if !flags.watch || conf.RefreshCron == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, run); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	appLog.Info("watch mode", "refresh", conf.RefreshCron)
	c.Start()
	<-ctx.Done()
	c.Stop()
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", defaultConfigPath(), "Path to config file")
	flag.StringVar(&cfg.view, "view", "", "View to render: day, week, month or upcoming (overrides config)")
	flag.StringVar(&cfg.date, "date", "", "Anchor date (YYYY-MM-DD, default today)")
	flag.IntVar(&cfg.upcoming, "n", 10, "Number of entries in the upcoming view")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and re-render on the configured cron schedule")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()
	return cfg
}

// resolveAnchor picks the view anchor: the -date flag when given, the
// current date otherwise. Watch mode resolves on every tick so a session
// left running across midnight follows the calendar.
func resolveAnchor(dateFlag string, now time.Time, loc *time.Location) (time.Time, error) {
	if dateFlag != "" {
		return model.ParseDateIn(dateFlag, loc)
	}
	return now.In(loc), nil
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "glancecal", "config.yaml")
	}
	return "config.yaml"
}

// loadEvents reads every configured source. JSON payloads hold event
// records in the backend's wire shape; .ics files go through the importer.
// A broken source is logged and skipped.
func loadEvents(sources []config.SourceConfig, opts schedule.Options) []model.Event {
	var events []model.Event
	for _, src := range sources {
		body, err := os.ReadFile(src.Path)
		if err != nil {
			appLog.Error("failed to read source", err, "source", src.ID, "path", src.Path)
			continue
		}

		if strings.EqualFold(filepath.Ext(src.Path), ".ics") {
			now := time.Now().In(opts.Location)
			imported, err := ics.Import(
				ics.Source{ID: src.ID, Name: src.Name, Color: src.Color},
				body,
				ics.ImportConfig{
					RangeStart: now.AddDate(0, 0, -opts.UpcomingHorizonDays),
					RangeEnd:   now.AddDate(0, 0, opts.UpcomingHorizonDays),
				},
			)
			if err != nil {
				appLog.Error("failed to import ics source", err, "source", src.ID, "path", src.Path)
				continue
			}
			events = append(events, imported...)
			continue
		}

		var batch []model.Event
		if err := json.Unmarshal(body, &batch); err != nil {
			appLog.Error("failed to decode events payload", err, "source", src.ID, "path", src.Path)
			continue
		}
		for i := range batch {
			if batch[i].Color == "" {
				batch[i].Color = src.Color
			}
		}
		events = append(events, batch...)
	}
	return events
}

func buildAndRender(events []model.Event, view string, anchor time.Time, upcoming int, opts schedule.Options) (string, error) {
	switch view {
	case "day":
		v, err := schedule.BuildDayView(events, anchor, opts)
		if err != nil {
			return "", err
		}
		return render.Day(v), nil
	case "week":
		v, err := schedule.BuildWeekView(events, anchor, opts)
		if err != nil {
			return "", err
		}
		return render.Week(v), nil
	case "month":
		v, err := schedule.BuildMonthView(events, anchor, opts)
		if err != nil {
			return "", err
		}
		return render.Month(v), nil
	case "upcoming":
		now := time.Now().In(opts.Location)
		return render.Upcoming(schedule.Upcoming(events, now, upcoming, opts), now), nil
	default:
		return "", fmt.Errorf("unknown view %q", view)
	}
}
