// internal/sleeper/client.go

package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://api.sleeper.app/v1"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerMinute = 600 // Sleeper просит держаться ниже 1000 в минуту

	userAgent = "sleeper-tradebot/1.0"
	maxBody   = 512
)

// ErrUserNotFound возвращается, когда Sleeper отвечает null на запрос пользователя
var ErrUserNotFound = errors.New("user not found")

// FetchError описывает любую ошибку получения данных лиги.
// Для прогона она фатальна: повторов нет.
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: unexpected status code %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RequestObserver получает длительность каждого запроса. status равен 0,
// если ответ не был получен.
type RequestObserver interface {
	ObserveRequest(op string, status int, took time.Duration)
}

// Options настраивает клиент
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	HTTPClient        *http.Client
	Observer          RequestObserver
}

// Client представляет клиент Sleeper API
type Client struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	observer RequestObserver
	logger   *zap.Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = DefaultRequestsPerMinute
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		client:   httpClient,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1),
		observer: opts.Observer,
		logger:   logger.Named("sleeper"),
	}
}

// UserID разрешает имя пользователя в его идентификатор
func (c *Client) UserID(ctx context.Context, username string) (string, error) {
	endpoint := c.endpoint("user", url.PathEscape(username))

	var user *User
	if err := c.doRequest(ctx, "user", endpoint, &user); err != nil {
		return "", err
	}
	// Неизвестный пользователь приходит как 200 с телом null
	if user == nil || user.UserID == "" {
		return "", &FetchError{Op: "user", URL: endpoint, Err: fmt.Errorf("%w: %s", ErrUserNotFound, username)}
	}

	c.logger.Debug("resolved user",
		zap.String("username", username),
		zap.String("user_id", user.UserID))
	return user.UserID, nil
}

// LeagueUsers возвращает отображаемые имена участников лиги по user_id
func (c *Client) LeagueUsers(ctx context.Context, leagueID string) (map[string]string, error) {
	endpoint := c.endpoint("league", url.PathEscape(leagueID), "users")

	var users []User
	if err := c.doRequest(ctx, "league users", endpoint, &users); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		if u.UserID == "" {
			continue
		}
		names[u.UserID] = u.DisplayName
	}

	c.logger.Debug("fetched league users",
		zap.String("league_id", leagueID),
		zap.Int("count", len(names)))
	return names, nil
}

// Rosters возвращает составы всех участников лиги
func (c *Client) Rosters(ctx context.Context, leagueID string) ([]Roster, error) {
	endpoint := c.endpoint("league", url.PathEscape(leagueID), "rosters")

	var rosters []Roster
	if err := c.doRequest(ctx, "rosters", endpoint, &rosters); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched rosters",
		zap.String("league_id", leagueID),
		zap.Int("count", len(rosters)))
	return rosters, nil
}

// Players загружает полный справочник игроков NFL (несколько мегабайт)
func (c *Client) Players(ctx context.Context) (Directory, error) {
	endpoint := c.endpoint("players", "nfl")

	var dir Directory
	if err := c.doRequest(ctx, "players", endpoint, &dir); err != nil {
		return nil, err
	}
	if dir == nil {
		return nil, &FetchError{Op: "players", URL: endpoint, Err: errors.New("empty player directory")}
	}

	for id, p := range dir {
		if p.ID == "" {
			p.ID = id
			dir[id] = p
		}
	}

	c.logger.Debug("fetched player directory", zap.Int("count", len(dir)))
	return dir, nil
}

func (c *Client) endpoint(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

// doRequest выполняет HTTP запрос с учетом rate limit
func (c *Client) doRequest(ctx context.Context, op, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Op: op, URL: endpoint, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{Op: op, URL: endpoint, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(op, 0, time.Since(start))
		return &FetchError{Op: op, URL: endpoint, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	took := time.Since(start)
	c.observe(op, resp.StatusCode, took)
	c.logger.Debug("sleeper request",
		zap.String("op", op),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", took))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return &FetchError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("body: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, URL: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) observe(op string, status int, took time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, took)
	}
}
