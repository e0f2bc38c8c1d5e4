// Package main provides the command-line Telegraph uploader.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/whileseated/telegraph-markdown-uploader/internal/config"
	"github.com/whileseated/telegraph-markdown-uploader/internal/journal"
	"github.com/whileseated/telegraph-markdown-uploader/internal/logger"
	"github.com/whileseated/telegraph-markdown-uploader/internal/publisher"
)

type uploadCommand struct {
	Title        string `short:"t" long:"title" description:"Page title (default: front matter, first heading, then file name)"`
	Author       string `short:"a" long:"author" description:"Author name shown on the page"`
	AccountName  string `long:"account-name" description:"Short name used if a Telegraph account must be created"`
	NoSourceLink bool   `long:"no-source-link" description:"Do not prepend the source link from front matter"`
	Args         struct {
		File string `positional-arg-name:"FILE" required:"yes" description:"Markdown file to publish"`
	} `positional-args:"yes"`
}

type mirrorCommand struct {
	Title        string `short:"t" long:"title" description:"Page title (default: extracted article title)"`
	Author       string `short:"a" long:"author" description:"Author name shown on the page"`
	AccountName  string `long:"account-name" description:"Short name used if a Telegraph account must be created"`
	NoSourceLink bool   `long:"no-source-link" description:"Do not prepend the via-site link"`
	Args         struct {
		URL string `positional-arg-name:"URL" required:"yes" description:"Article URL to mirror"`
	} `positional-args:"yes"`
}

type historyCommand struct {
	Limit int `short:"n" long:"limit" default:"0" description:"Show only the last N entries (0 = all)"`
}

type options struct {
	Config string `short:"c" long:"config" description:"Path to YAML config file"`
	Blank  string `short:"b" long:"blank" value-name:"URL" description:"Blank out a published page given its URL or path"`
	Debug  bool   `long:"debug" description:"Enable debug logging"`

	Upload  uploadCommand  `command:"upload" description:"Publish a Markdown file as a Telegraph page"`
	Mirror  mirrorCommand  `command:"mirror" description:"Mirror a web article as a Telegraph page"`
	History historyCommand `command:"history" description:"List previously published pages"`
}

func main() {
	var opts options

	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		os.Exit(1)
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if opts.Debug {
		level = "debug"
	}

	log := logger.New(level)
	log.Debug("Configuration loaded", "config", cfg.String())

	pub := publisher.New(cfg, log)

	switch {
	case parser.Active == nil:
		if opts.Blank == "" {
			parser.WriteHelp(os.Stderr)
			os.Exit(1)
		}

		runBlank(pub, log, opts.Blank)
	case parser.Active.Name == "upload":
		runUpload(pub, log, &opts.Upload)
	case parser.Active.Name == "mirror":
		runMirror(pub, log, &opts.Mirror)
	case parser.Active.Name == "history":
		runHistory(pub.Journal(), log, opts.History.Limit)
	}
}

// loadConfig loads the config file, falling back to built-in defaults
// when no file is given and the default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	if _, err := os.Stat(config.DefaultPath); err == nil {
		return config.Load(config.DefaultPath)
	}

	return config.Default(), nil
}

func runUpload(pub *publisher.Publisher, log *logger.Logger, cmd *uploadCommand) {
	log.Info(fmt.Sprintf("Publishing %s...", cmd.Args.File))

	result, err := pub.UploadFile(cmd.Args.File, publisher.Options{
		Title:        cmd.Title,
		Author:       cmd.Author,
		AccountName:  cmd.AccountName,
		NoSourceLink: cmd.NoSourceLink,
	})
	if err != nil {
		log.Error(fmt.Sprintf("Upload failed: %v", err))
		os.Exit(1)
	}

	printResult(result)
}

func runMirror(pub *publisher.Publisher, log *logger.Logger, cmd *mirrorCommand) {
	log.Info(fmt.Sprintf("Mirroring %s...", cmd.Args.URL))

	result, err := pub.Mirror(cmd.Args.URL, publisher.Options{
		Title:        cmd.Title,
		Author:       cmd.Author,
		AccountName:  cmd.AccountName,
		NoSourceLink: cmd.NoSourceLink,
	})
	if err != nil {
		log.Error(fmt.Sprintf("Mirror failed: %v", err))
		os.Exit(1)
	}

	printResult(result)
}

func runBlank(pub *publisher.Publisher, log *logger.Logger, ref string) {
	result, err := pub.Blank(ref)
	if err != nil {
		log.Error(fmt.Sprintf("Blank failed: %v", err))
		os.Exit(1)
	}

	fmt.Printf("\n✓ Blanked: %s\n", result.URL)
}

func runHistory(jrnl *journal.Journal, log *logger.Logger, limit int) {
	entries, err := jrnl.Entries()
	if err != nil {
		log.Error(fmt.Sprintf("Failed to read history: %v", err))
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No pages published yet")

		return
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	for _, e := range entries {
		fmt.Printf("%s  %s  %s\n", e.Time.Format("2006-01-02 15:04"), e.URL, e.Title)
	}
}

func printResult(result *publisher.Result) {
	fmt.Printf("\n✓ Published: %s\n", result.URL)
	fmt.Printf("   Title: %s\n", result.Title)

	if result.Author != "" {
		fmt.Printf("   Author: %s\n", result.Author)
	}

	fmt.Printf("   Nodes: %d, words: %d, content: %d bytes\n",
		result.NodeCount, result.Words, result.ContentBytes)
}
