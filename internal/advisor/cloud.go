package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CloudAdvisor queries a cloud evaluation service over HTTP. The service
// speaks the lichess cloud-eval shape: principal variations with a move
// list and a centipawn or mate score.
type CloudAdvisor struct {
	client  *http.Client
	baseURL string
}

// DefaultCloudURL is the public cloud evaluation endpoint.
const DefaultCloudURL = "https://lichess.org/api/cloud-eval"

// NewCloudAdvisor creates a cloud-backed advisor. An empty baseURL uses
// the public endpoint.
func NewCloudAdvisor(baseURL string) *CloudAdvisor {
	if baseURL == "" {
		baseURL = DefaultCloudURL
	}
	return &CloudAdvisor{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

// cloudResponse mirrors the service's JSON answer.
type cloudResponse struct {
	Depth int `json:"depth"`
	PVs   []struct {
		Moves string `json:"moves"`
		CP    int    `json:"cp"`
		Mate  int    `json:"mate"`
	} `json:"pvs"`
}

// Suggest asks the service for the best move in the position. Context
// cancellation aborts the request; the caller's game state is untouched
// either way.
func (ca *CloudAdvisor) Suggest(ctx context.Context, req Request) (Response, error) {
	q := url.Values{}
	q.Set("fen", req.FEN)
	if req.Depth > 0 {
		q.Set("depth", fmt.Sprintf("%d", req.Depth))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, ca.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := ca.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The service has no evaluation for this position.
		return Response{Found: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body cloudResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(body.PVs) == 0 || body.PVs[0].Moves == "" {
		return Response{Found: false}, nil
	}

	best := strings.Fields(body.PVs[0].Moves)[0]
	return Response{
		BestMove: best,
		Eval:     body.PVs[0].CP,
		Found:    true,
	}, nil
}
