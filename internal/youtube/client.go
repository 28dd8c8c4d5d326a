package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/podwheel/podwheel/internal/cache"
	"github.com/podwheel/podwheel/internal/library"
	"github.com/rs/zerolog/log"
)

const (
	oembedBaseURL  = "https://www.youtube.com"
	requestTimeout = 10 * time.Second
)

// Client looks up video titles via the public oEmbed endpoint. No API key
// is required. A disk cache keeps previously resolved titles.
type Client struct {
	client     *resty.Client
	titleCache *cache.Cache
}

// NewClient creates a Client with sensible defaults.
func NewClient() *Client {
	titleCache, err := cache.NewCache()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize title cache, titles will not be cached")
	}

	if titleCache != nil {
		go func() {
			if err := titleCache.CleanExpired(); err != nil {
				log.Debug().Err(err).Msg("Failed to clean expired cache")
			}
		}()
	}

	return &Client{
		client: resty.New().
			SetBaseURL(oembedBaseURL).
			SetTimeout(requestTimeout),
		titleCache: titleCache,
	}
}

// SetBaseURL overrides the oEmbed endpoint, used in tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.client.SetBaseURL(baseURL)
}

// LookupTitle fetches the display title for a video id.
func (c *Client) LookupTitle(ctx context.Context, videoID string) (string, error) {
	if c.titleCache != nil {
		if title := c.titleCache.GetTitle(videoID); title != "" {
			log.Debug().Str("id", videoID).Msg("Title loaded from cache")
			return title, nil
		}
	}

	watchURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("url", watchURL).
		SetQueryParam("format", "json").
		Get("/oembed")
	if err != nil {
		return "", fmt.Errorf("failed to fetch title for %s: %w", videoID, err)
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("oembed returned status %d: %s", resp.StatusCode(), resp.Status())
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("failed to parse oembed response: %w", err)
	}

	if c.titleCache != nil && body.Title != "" {
		if err := c.titleCache.SaveTitle(videoID, body.Title); err != nil {
			log.Debug().Err(err).Str("id", videoID).Msg("Failed to cache title")
		}
	}

	return body.Title, nil
}

// Resolve turns free-form user text into a Song. The id comes from the pure
// grammar; the title lookup is best-effort and falls back to the id so that
// resolution never depends on the network.
func (c *Client) Resolve(text string) (library.Song, error) {
	id, err := ResolveVideoID(text)
	if err != nil {
		return library.Song{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	title, err := c.LookupTitle(ctx, id)
	if err != nil || title == "" {
		log.Debug().Err(err).Str("id", id).Msg("Title lookup failed, using id")
		title = id
	}

	return library.Song{ID: id, Title: title}, nil
}
