// Package publisher orchestrates the publish pipeline: read a
// document, extract front matter, convert to content nodes, guard the
// size limit, publish through the API, and record the URL.
package publisher

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/whileseated/telegraph-markdown-uploader/internal/config"
	"github.com/whileseated/telegraph-markdown-uploader/internal/convert"
	"github.com/whileseated/telegraph-markdown-uploader/internal/fetch"
	"github.com/whileseated/telegraph-markdown-uploader/internal/frontmatter"
	"github.com/whileseated/telegraph-markdown-uploader/internal/journal"
	"github.com/whileseated/telegraph-markdown-uploader/internal/logger"
	"github.com/whileseated/telegraph-markdown-uploader/internal/telegraph"
	"github.com/whileseated/telegraph-markdown-uploader/pkg/wordcount"
)

// Publishing errors.
var (
	ErrNoContent        = errors.New("document produced no content nodes")
	ErrContentTooLarge  = errors.New("content exceeds size limit")
	ErrNoToken          = errors.New("no cached access token, cannot edit pages")
	ErrNoTokenReceived  = errors.New("no access token received from createAccount")
	ErrInvalidMirrorURL = errors.New("mirror target must be an http(s) URL")
)

// Page field limits enforced by the API, applied before sending.
const (
	maxTitleRunes  = 256
	maxAuthorRunes = 128
)

// Replacement page used when blanking.
const (
	removedTitle = "[Removed]"
	removedBody  = "[This page has been removed]"
)

// Fetcher retrieves a web page body for mirroring.
type Fetcher interface {
	Get(url string) (string, error)
}

// Publisher coordinates the converter, the API client, the token store
// and the journal for one invocation.
type Publisher struct {
	client  telegraph.API
	tokens  *telegraph.TokenStore
	journal *journal.Journal
	fetcher Fetcher
	cfg     *config.Config
	logger  *logger.Logger
}

// New creates a publisher wired to the real API client.
func New(cfg *config.Config, log *logger.Logger) *Publisher {
	return &Publisher{
		client:  telegraph.NewClient(cfg.Telegraph.APIBase, cfg.Telegraph.GetTimeout(), log),
		tokens:  telegraph.NewTokenStore(cfg.Account.TokenFile),
		journal: journal.New(cfg.Publish.LogFile),
		fetcher: fetch.New(&cfg.Mirror),
		cfg:     cfg,
		logger:  log,
	}
}

// NewWithClient creates a publisher with custom collaborators (useful
// for testing).
func NewWithClient(client telegraph.API, tokens *telegraph.TokenStore, jrnl *journal.Journal, fetcher Fetcher, cfg *config.Config, log *logger.Logger) *Publisher {
	return &Publisher{
		client:  client,
		tokens:  tokens,
		journal: jrnl,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  log,
	}
}

// Options carries per-invocation overrides from the command line.
type Options struct {
	Title        string
	Author       string
	AccountName  string
	NoSourceLink bool
}

// Result describes one completed publish.
type Result struct {
	FrontMatter  *frontmatter.FrontMatter
	URL          string
	Path         string
	Title        string
	Author       string
	ContentBytes int
	Words        int
	NodeCount    int
}

// UploadFile publishes a Markdown file. The file name stem is the last
// title fallback.
func (p *Publisher) UploadFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	return p.publishMarkdown(string(data), titleFromFilename(path), opts)
}

// publishMarkdown runs the Markdown pipeline: front matter, title and
// author resolution, conversion, then the shared publish tail.
func (p *Publisher) publishMarkdown(doc, fallbackTitle string, opts Options) (*Result, error) {
	meta, body := frontmatter.Extract(doc)
	if meta != nil {
		p.logger.Debug("Front matter recognized", "title", meta.Title, "author", meta.Author)
	} else {
		p.logger.Debug("No front matter recognized, publishing document as-is")
	}

	title := opts.Title
	if title == "" && meta != nil {
		title = meta.Title
	}

	if title == "" {
		title = frontmatter.DocumentTitle(body)
	}

	if title == "" {
		title = fallbackTitle
	}

	author := opts.Author
	if author == "" && meta != nil {
		author = meta.Author
	}

	if author == "" {
		author = p.cfg.Account.AuthorName
	}

	convOpts := convert.Options{}
	if meta != nil && p.cfg.Publish.SourceLink && !opts.NoSourceLink {
		convOpts.SourceName = meta.SourceName
		convOpts.SourceURL = meta.SourceURL
	}

	nodes, err := convert.Convert(body, convOpts)
	if err != nil {
		return nil, err
	}

	result, err := p.publish(nodes, title, author, opts)
	if err != nil {
		return nil, err
	}

	result.Words = wordcount.Count(body)
	result.FrontMatter = meta

	return result, nil
}

// Mirror publishes the readable extraction of a live web page.
func (p *Publisher) Mirror(pageURL string, opts Options) (*Result, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMirrorURL, pageURL)
	}

	p.logger.Info(fmt.Sprintf("Fetching article: %s", pageURL))

	raw, err := p.fetcher.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(raw), parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = article.Title
	}

	if title == "" {
		title = parsed.Host
	}

	author := opts.Author
	if author == "" {
		author = article.Byline
	}

	if author == "" {
		author = p.cfg.Account.AuthorName
	}

	nodes, err := convert.HTMLToNodes(article.Content)
	if err != nil {
		return nil, err
	}

	if p.cfg.Publish.SourceLink && !opts.NoSourceLink {
		name := article.SiteName
		if name == "" {
			name = parsed.Host
		}

		nodes = append([]telegraph.Node{convert.SourceLink(name, pageURL)}, nodes...)
	}

	result, err := p.publish(nodes, title, author, opts)
	if err != nil {
		return nil, err
	}

	result.Words = wordcount.Count(article.TextContent)

	return result, nil
}

// Blank replaces a published page with a removal notice. The page must
// have been created with the cached token; resolution failures never
// reach the API.
func (p *Publisher) Blank(ref string) (*Result, error) {
	pagePath, err := telegraph.ResolvePagePath(ref)
	if err != nil {
		return nil, err
	}

	token, err := p.tokens.Load()
	if err != nil {
		return nil, err
	}

	if token == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoToken, p.tokens.Path())
	}

	p.logger.Info(fmt.Sprintf("Blanking page: %s", pagePath))

	content := []telegraph.Node{
		telegraph.NewElement("p", telegraph.Text(removedBody)),
	}

	page, err := p.client.EditPage(token, pagePath, telegraph.PageParams{
		Title:   removedTitle,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to blank page: %w", err)
	}

	return &Result{
		URL:       page.URL,
		Path:      page.Path,
		Title:     page.Title,
		NodeCount: len(content),
	}, nil
}

// publish is the shared tail: size guard, token, createPage, journal.
func (p *Publisher) publish(nodes []telegraph.Node, title, author string, opts Options) (*Result, error) {
	if len(nodes) == 0 {
		return nil, ErrNoContent
	}

	size, err := telegraph.ContentSize(nodes)
	if err != nil {
		return nil, err
	}

	limit := p.cfg.Publish.MaxContentBytes
	p.logger.Info(fmt.Sprintf("Content size: %d bytes (%d%% of limit)", size, size*100/limit))

	if size > limit {
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrContentTooLarge, size, limit)
	}

	token, err := p.ensureToken(opts.AccountName)
	if err != nil {
		return nil, err
	}

	page, err := p.client.CreatePage(token, telegraph.PageParams{
		Title:      truncateRunes(title, maxTitleRunes),
		AuthorName: truncateRunes(author, maxAuthorRunes),
		Content:    nodes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	// The page is live; a journal failure must not fail the run.
	if err := p.journal.Record(page.URL, page.Title); err != nil {
		p.logger.Warn(fmt.Sprintf("Failed to record page in %s: %v", p.journal.Path(), err))
	}

	return &Result{
		URL:          page.URL,
		Path:         page.Path,
		Title:        page.Title,
		Author:       author,
		ContentBytes: size,
		NodeCount:    len(nodes),
	}, nil
}

// ensureToken loads the cached access token, creating an account on
// first use and caching the new token.
func (p *Publisher) ensureToken(accountName string) (string, error) {
	token, err := p.tokens.Load()
	if err != nil {
		return "", err
	}

	if token != "" {
		return token, nil
	}

	shortName := accountName
	if shortName == "" {
		shortName = p.cfg.Account.ShortName
	}

	p.logger.Info(fmt.Sprintf("No cached token, creating Telegraph account: short_name=%s", shortName))

	account, err := p.client.CreateAccount(shortName, p.cfg.Account.AuthorName)
	if err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	if account.AccessToken == "" {
		return "", ErrNoTokenReceived
	}

	if err := p.tokens.Save(account.AccessToken); err != nil {
		return "", err
	}

	p.logger.Info(fmt.Sprintf("Token cached in %s", p.tokens.Path()))

	return account.AccessToken, nil
}

// Journal exposes the journal for the history listing.
func (p *Publisher) Journal() *journal.Journal {
	return p.journal
}

func titleFromFilename(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
