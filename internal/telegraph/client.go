package telegraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/whileseated/telegraph-markdown-uploader/internal/logger"
)

// API errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrAPIRejected          = errors.New("telegraph api error")
	ErrNoResult             = errors.New("no result in response")
	ErrPagePathUnresolved   = errors.New("cannot resolve page path")
)

// Responses carry no page content (return_content is always false), so
// a small read limit is plenty.
const maxResponseBytes = 1 * 1024 * 1024

// API defines the interface for Telegraph API communication.
type API interface {
	CreateAccount(shortName, authorName string) (*Account, error)
	CreatePage(accessToken string, page PageParams) (*Page, error)
	EditPage(accessToken, path string, page PageParams) (*Page, error)
}

// Ensure Client implements API.
var _ API = (*Client)(nil)

// Account represents a Telegraph account returned by createAccount.
type Account struct {
	ShortName   string `json:"short_name"`
	AuthorName  string `json:"author_name"`
	AccessToken string `json:"access_token"`
	AuthURL     string `json:"auth_url"`
}

// Page represents a Telegraph page returned by createPage or editPage.
type Page struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AuthorName  string `json:"author_name"`
	Views       int    `json:"views"`
}

// PageParams carries the fields of a page create or edit call.
type PageParams struct {
	Title      string
	AuthorName string
	Content    []Node
}

// Client handles HTTP communication with the Telegraph API.
type Client struct {
	httpClient *http.Client
	apiBase    string
	logger     *logger.Logger
}

// NewClient creates a new API client for the given base URL.
func NewClient(apiBase string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// apiResponse is the envelope every API method returns.
type apiResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	OK     bool            `json:"ok"`
}

// CreateAccount registers a new Telegraph account and returns it with
// its access token.
func (c *Client) CreateAccount(shortName, authorName string) (*Account, error) {
	if c.logger != nil {
		c.logger.Debug("Creating Telegraph account", "short_name", shortName)
	}

	params := url.Values{}
	params.Set("short_name", shortName)

	if authorName != "" {
		params.Set("author_name", authorName)
	}

	body, err := c.get("createAccount", params)
	if err != nil {
		return nil, err
	}

	return decodeResult[Account](body)
}

// CreatePage publishes a new page and returns it, including its URL.
func (c *Client) CreatePage(accessToken string, page PageParams) (*Page, error) {
	form, err := pageForm(accessToken, page)
	if err != nil {
		return nil, err
	}

	body, err := c.postForm("createPage", form)
	if err != nil {
		return nil, err
	}

	return decodeResult[Page](body)
}

// EditPage replaces the title and content of an existing page owned by
// the given access token.
func (c *Client) EditPage(accessToken, path string, page PageParams) (*Page, error) {
	form, err := pageForm(accessToken, page)
	if err != nil {
		return nil, err
	}

	form.Set("path", path)

	body, err := c.postForm("editPage", form)
	if err != nil {
		return nil, err
	}

	return decodeResult[Page](body)
}

// pageForm builds the shared form fields of createPage and editPage.
// The content field carries the node sequence as a JSON array string.
func pageForm(accessToken string, page PageParams) (url.Values, error) {
	content, err := MarshalContent(page.Content)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("access_token", accessToken)
	form.Set("title", page.Title)
	form.Set("content", content)
	form.Set("return_content", "false")

	if page.AuthorName != "" {
		form.Set("author_name", page.AuthorName)
	}

	return form, nil
}

func (c *Client) get(method string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s?%s", c.apiBase, method, params.Encode())

	req, err := http.NewRequest(http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, method)
}

func (c *Client) postForm(method string, form url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", c.apiBase, method)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, method)
}

func (c *Client) do(req *http.Request, method string) (body []byte, err error) {
	if c.logger != nil {
		c.logger.Debug("Calling Telegraph API", "method", method)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	reader := io.LimitReader(resp.Body, maxResponseBytes)

	body, err = io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Error(fmt.Sprintf("%s failed with status %d: %s", method, resp.StatusCode, string(body)))
		}

		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, resp.StatusCode, string(body))
	}

	return body, nil
}

// decodeResult unwraps the {ok, result, error} envelope into the target
// type. An ok=false envelope surfaces the API's message verbatim.
func decodeResult[T any](body []byte) (*T, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !resp.OK {
		return nil, fmt.Errorf("%w: %s", ErrAPIRejected, resp.Error)
	}

	if resp.Result == nil {
		return nil, ErrNoResult
	}

	var target T
	if err := json.Unmarshal(resp.Result, &target); err != nil {
		return nil, fmt.Errorf("failed to parse response result: %w", err)
	}

	return &target, nil
}

// ResolvePagePath extracts the page path from a full page URL or a bare
// path reference. The result is never empty; callers must not hit the
// API when resolution fails.
func ResolvePagePath(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrPagePathUnresolved)
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrPagePathUnresolved, ref)
		}

		segments := strings.Split(strings.Trim(u.Path, "/"), "/")

		p := segments[len(segments)-1]
		if p == "" {
			return "", fmt.Errorf("%w: %q has no path segment", ErrPagePathUnresolved, ref)
		}

		return p, nil
	}

	p := strings.Trim(ref, "/")
	if p == "" || strings.ContainsAny(p, " \t") {
		return "", fmt.Errorf("%w: %q", ErrPagePathUnresolved, ref)
	}

	return p, nil
}
