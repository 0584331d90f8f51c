package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/printforge/designer/internal/database"
	"github.com/printforge/designer/internal/entity"
)

// httpOrderSubmitter posts the design persistence contract as a
// multipart form to the order/cart collaborator.
type httpOrderSubmitter struct {
	endpoint string
	client   *http.Client
}

func NewHTTPOrderSubmitter(endpoint string) OrderSubmitter {
	return &httpOrderSubmitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *httpOrderSubmitter) Submit(ctx context.Context, cfg entity.DesignConfig) (string, error) {
	assetURLs, err := json.Marshal(cfg.AssetUrls)
	if err != nil {
		return "", err
	}
	designJSON, err := json.Marshal(cfg.CanvasJSON)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("preview_url", cfg.PreviewURL)
	_ = mw.WriteField("print_url", cfg.PrintURL)
	_ = mw.WriteField("asset_urls", string(assetURLs))
	_ = mw.WriteField("product_type", cfg.ProductType)
	_ = mw.WriteField("product_color", cfg.ProductColor)
	_ = mw.WriteField("price", strconv.Itoa(cfg.Price))
	_ = mw.WriteField("design_json", string(designJSON))
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit design: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("submit design: status %d", resp.StatusCode)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.ID == "" {
		// collaborator may not return a body; mint a local reference
		return uuid.New().String(), nil
	}
	return out.ID, nil
}

// localOrderSubmitter persists the DesignConfig through the design
// repository, for deployments without an order collaborator.
type localOrderSubmitter struct {
	repo database.DesignRepository
}

func NewLocalOrderSubmitter(repo database.DesignRepository) OrderSubmitter {
	return &localOrderSubmitter{repo: repo}
}

func (s *localOrderSubmitter) Submit(_ context.Context, cfg entity.DesignConfig) (string, error) {
	id := uuid.New().String()
	if err := s.repo.Save(id, cfg); err != nil {
		return "", err
	}
	return id, nil
}
