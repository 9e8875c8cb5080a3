package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artur/ytmp4/internal/bot"
	"github.com/artur/ytmp4/internal/config"
	"github.com/artur/ytmp4/internal/database"
	"github.com/artur/ytmp4/internal/database/repository"
	"github.com/artur/ytmp4/internal/downloader"
	"github.com/artur/ytmp4/internal/handler"
	"github.com/artur/ytmp4/internal/progress"
)

type app struct {
	stdout     io.Writer
	stderr     io.Writer
	newSource  func() downloader.Source
	loadConfig func() (*config.Config, error)
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newSource: func() downloader.Source {
			return downloader.NewYouTubeSource(http.DefaultClient)
		},
		loadConfig: config.Load,
	}
}

type downloadOptions struct {
	quality   string
	output    string
	dir       string
	quiet     bool
	verbose   bool
	noHistory bool
}

func (a *app) rootCmd() *cobra.Command {
	opts := &downloadOptions{}

	cmd := &cobra.Command{
		Use:     "ytmp4 <url>",
		Short:   "Download a YouTube video as an MP4 file",
		Example: `ytmp4 https://www.youtube.com/watch?v=dQw4w9WgXcQ -q 720 -o "Never Gonna"`,
		Version: version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogging(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.download(cmd, args[0], opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.quality, "quality", "q", config.DefaultQuality, `Video quality: "highest", "lowest" or a height like 720`)
	flags.StringVarP(&opts.output, "output", "o", "", "Output file name, the default is generated from the video title")
	flags.StringVarP(&opts.dir, "dir", "d", config.DefaultOutputDir, "The output directory")
	flags.BoolVar(&opts.quiet, "quiet", false, "Do not show progress")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record this download in the history database")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(a.historyCmd())

	return cmd
}

func (a *app) setupLogging(verbose bool) {
	log.SetOutput(a.stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func (a *app) download(cmd *cobra.Command, url string, opts *downloadOptions) error {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	svc := downloader.NewService(a.newSource(), workDir)
	if err := svc.CheckURL(url); err != nil {
		return err
	}

	quality, err := downloader.ParseQuality(opts.quality)
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	var history handler.HistoryRecorder
	if cfg.HistoryEnabled && !opts.noHistory {
		db, err := openHistory(cfg.DBPath)
		if err != nil {
			log.Warnf("[DB] History disabled: %v", err)
		} else {
			defer db.Close()
			history = repository.NewVideoRepository(db.DB)
		}
	}

	var notifier handler.Notifier
	if cfg.NotificationsEnabled() {
		b, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warnf("[BOT] Notifications disabled: %v", err)
		} else {
			notifier = b
		}
	}

	var w io.Writer = a.stderr
	if opts.quiet {
		w = nil
	}
	bar := progress.New(w)

	h := handler.NewDownloadHandler(svc, history, notifier)
	res, err := h.Handle(cmd.Context(), downloader.Request{
		URL:        url,
		Quality:    quality,
		OutputName: opts.output,
		Dir:        opts.dir,
	}, bar)
	if err != nil {
		return err
	}

	log.Infof("[DOWNLOAD] %s: %s", res.VideoID, bar.Summary())
	fmt.Fprintln(a.stdout, res.OutputPath)
	return nil
}

func openHistory(path string) (*database.DB, error) {
	db, err := database.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
