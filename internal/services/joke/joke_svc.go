package joke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrUpstreamStatus = errors.New("joke api returned unexpected status")

// IJokeService fetches one joke from the upstream dad-joke API.
type IJokeService interface {
	Fetch(ctx context.Context) (string, error)
}

type jokeService struct {
	apiURL string
	client *http.Client
}

// NewJokeService builds a client for apiURL. Every fetch is bounded by
// timeout, on top of whatever deadline the caller's context carries.
func NewJokeService(apiURL string, timeout time.Duration) IJokeService {
	return &jokeService{
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
	}
}

type jokeBody struct {
	Joke string `json:"joke"`
}

func (svc *jokeService) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.apiURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := svc.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var body jokeBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Joke, nil
}
