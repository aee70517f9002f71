package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vonhatnam1212/norugz-agent/pkg/config"
	"go.uber.org/zap"
)

const maxResponseBody = 1 << 20 // 1 MiB

// tweetFields is requested on every read so replies, retweets and photo
// attachments can be resolved without extra round trips.
const tweetFields = "created_at,author_id,conversation_id,referenced_tweets,attachments"

// HTTPClient talks to the v2 API with a bearer token.
type HTTPClient struct {
	baseURL string
	bearer  string
	http    *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(cfg config.TwitterConfig, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.APIBase,
		bearer:  cfg.BearerToken,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

type apiTweet struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	AuthorID         string `json:"author_id"`
	CreatedAt        string `json:"created_at"`
	ConversationID   string `json:"conversation_id"`
	ReferencedTweets []struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"referenced_tweets"`
	Attachments struct {
		MediaKeys []string `json:"media_keys"`
	} `json:"attachments"`
}

type apiIncludes struct {
	Users []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"users"`
	Media []struct {
		MediaKey string `json:"media_key"`
		Type     string `json:"type"`
		URL      string `json:"url"`
	} `json:"media"`
}

type tweetListResponse struct {
	Data     []apiTweet  `json:"data"`
	Includes apiIncludes `json:"includes"`
}

type tweetResponse struct {
	Data     apiTweet    `json:"data"`
	Includes apiIncludes `json:"includes"`
}

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"data"`
}

func (c *HTTPClient) SearchRecent(ctx context.Context, query string, limit int) ([]Tweet, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("sort_order", "recency")

	var resp tweetListResponse
	if err := c.get(ctx, "/2/tweets/search/recent", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search tweets: %w", err)
	}

	return convertTweets(resp.Data, resp.Includes), nil
}

func (c *HTTPClient) GetTweet(ctx context.Context, id string) (*Tweet, error) {
	var resp tweetResponse
	if err := c.get(ctx, "/2/tweets/"+url.PathEscape(id), url.Values{}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get tweet %s: %w", id, err)
	}
	if resp.Data.ID == "" {
		return nil, fmt.Errorf("tweet %s not found", id)
	}

	tweet := convertTweet(resp.Data, resp.Includes)
	return &tweet, nil
}

func (c *HTTPClient) UserTimeline(ctx context.Context, username string, limit int) ([]Tweet, error) {
	var user userResponse
	if err := c.get(ctx, "/2/users/by/username/"+url.PathEscape(username), url.Values{}, &user); err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", username, err)
	}
	if user.Data.ID == "" {
		return nil, fmt.Errorf("user %s not found", username)
	}

	params := url.Values{}
	params.Set("max_results", strconv.Itoa(limit))

	var resp tweetListResponse
	if err := c.get(ctx, "/2/users/"+user.Data.ID+"/tweets", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to get timeline for %s: %w", username, err)
	}

	tweets := convertTweets(resp.Data, resp.Includes)
	// Timeline results omit the author from includes; fill from the lookup
	for i := range tweets {
		if tweets[i].Username == "" {
			tweets[i].Username = user.Data.Username
			tweets[i].Name = user.Data.Name
		}
	}
	return tweets, nil
}

func (c *HTTPClient) PostReply(ctx context.Context, text, inReplyToID string) (*Tweet, error) {
	body := map[string]interface{}{
		"text": text,
	}
	if inReplyToID != "" {
		body["reply"] = map[string]string{"in_reply_to_tweet_id": inReplyToID}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post tweet: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("post tweet returned status %d: %s", httpResp.StatusCode, string(raw))
	}

	var resp tweetResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	tweet := convertTweet(resp.Data, resp.Includes)
	if tweet.InReplyToID == "" {
		tweet.InReplyToID = inReplyToID
	}
	return &tweet, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("tweet.fields", tweetFields)
	params.Set("expansions", "author_id,attachments.media_keys")
	params.Set("user.fields", "username,name")
	params.Set("media.fields", "url,type")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func convertTweets(data []apiTweet, includes apiIncludes) []Tweet {
	tweets := make([]Tweet, 0, len(data))
	for _, t := range data {
		tweets = append(tweets, convertTweet(t, includes))
	}
	return tweets
}

func convertTweet(t apiTweet, includes apiIncludes) Tweet {
	tweet := Tweet{
		ID:             t.ID,
		AuthorID:       t.AuthorID,
		Text:           t.Text,
		ConversationID: t.ConversationID,
	}

	if t.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			tweet.CreatedAt = ts
		}
	}

	for _, ref := range t.ReferencedTweets {
		switch ref.Type {
		case "replied_to":
			tweet.IsReply = true
			tweet.InReplyToID = ref.ID
		case "retweeted":
			tweet.IsRetweet = true
		}
	}

	for _, u := range includes.Users {
		if u.ID == t.AuthorID {
			tweet.Username = u.Username
			tweet.Name = u.Name
			break
		}
	}

	for _, key := range t.Attachments.MediaKeys {
		for _, m := range includes.Media {
			if m.MediaKey == key && m.Type == "photo" && m.URL != "" {
				tweet.PhotoURLs = append(tweet.PhotoURLs, m.URL)
			}
		}
	}

	if tweet.Username != "" {
		tweet.Permalink = "https://twitter.com/" + tweet.Username + "/status/" + tweet.ID
	}

	return tweet
}
