// Package main provides an offline preview of the Markdown-to-node
// conversion. It prints the node JSON the uploader would send, without
// any network access.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/whileseated/telegraph-markdown-uploader/internal/config"
	"github.com/whileseated/telegraph-markdown-uploader/internal/convert"
	"github.com/whileseated/telegraph-markdown-uploader/internal/frontmatter"
	"github.com/whileseated/telegraph-markdown-uploader/internal/logger"
	"github.com/whileseated/telegraph-markdown-uploader/internal/telegraph"
	"github.com/whileseated/telegraph-markdown-uploader/pkg/wordcount"
)

type options struct {
	Config string `short:"c" long:"config" description:"Path to YAML config file"`
	Pretty bool   `short:"p" long:"pretty" description:"Indent the node JSON"`
	Args   struct {
		File string `positional-arg-name:"FILE" required:"yes" description:"Markdown file to convert"`
	} `positional-args:"yes"`
}

func main() {
	var opts options

	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		os.Exit(1)
	}

	log := logger.New("info")

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to load config: %v", err))
		os.Exit(1)
	}

	data, err := os.ReadFile(opts.Args.File)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to read input file: %v", err))
		os.Exit(1)
	}

	meta, body := frontmatter.Extract(string(data))

	convOpts := convert.Options{}
	if meta != nil && cfg.Publish.SourceLink {
		convOpts.SourceName = meta.SourceName
		convOpts.SourceURL = meta.SourceURL
	}

	nodes, err := convert.Convert(body, convOpts)
	if err != nil {
		log.Error(fmt.Sprintf("Conversion failed: %v", err))
		os.Exit(1)
	}

	size, err := telegraph.ContentSize(nodes)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to encode nodes: %v", err))
		os.Exit(1)
	}

	var out []byte
	if opts.Pretty {
		out, err = json.MarshalIndent(nodes, "", "  ")
	} else {
		out, err = json.Marshal(nodes)
	}

	if err != nil {
		log.Error(fmt.Sprintf("Failed to encode nodes: %v", err))
		os.Exit(1)
	}

	// Node JSON on stdout; everything else stays on stderr.
	fmt.Println(string(out))

	if meta != nil {
		log.Info(fmt.Sprintf("Front matter: title=%q author=%q source=%q", meta.Title, meta.Author, meta.SourceURL))
	}

	limit := cfg.Publish.MaxContentBytes
	log.Info(fmt.Sprintf("%d nodes, %d words, %d bytes (%d%% of limit)",
		len(nodes), wordcount.Count(body), size, size*100/limit))

	if size > limit {
		log.Warn(fmt.Sprintf("Content exceeds the %d byte limit and would be rejected", limit))
		os.Exit(1)
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
