// Signed asset uploads: sign -> multipart upload -> durable URL.
package uploader

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/printforge/designer/internal/entity"
	"github.com/sirupsen/logrus"
)

// Upload folders of the storage provider.
const (
	FolderPrints   = "prints"
	FolderPreviews = "previews"
	FolderAssets   = "assets"
)

// UploadAuth is the signed authorization returned by the storage
// collaborator for one upload.
type UploadAuth struct {
	Signature string `json:"signature"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Timestamp int64  `json:"timestamp"`
}

// Signer requests upload authorization for a logical folder.
type Signer interface {
	Sign(ctx context.Context, folder string) (UploadAuth, error)
}

// HTTPSigner asks an external signing endpoint for upload parameters.
type HTTPSigner struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSigner(endpoint string) *HTTPSigner {
	return &HTTPSigner{endpoint: endpoint, client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *HTTPSigner) Sign(ctx context.Context, folder string) (UploadAuth, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"timestamp": time.Now().Unix(),
		"folder":    folder,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return UploadAuth{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return UploadAuth{}, fmt.Errorf("sign request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return UploadAuth{}, fmt.Errorf("sign request: status %d", resp.StatusCode)
	}
	var auth UploadAuth
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return UploadAuth{}, fmt.Errorf("sign response: %w", err)
	}
	return auth, nil
}

// LocalSigner signs uploads with a shared secret, for deployments that
// own their provider credentials. The signature is the provider scheme:
// sha1 over the sorted parameter string plus the secret.
type LocalSigner struct {
	APIKey    string
	Secret    string
	CloudName string
}

func (s *LocalSigner) Sign(_ context.Context, folder string) (UploadAuth, error) {
	ts := time.Now().Unix()
	payload := "folder=" + folder + "&timestamp=" + strconv.FormatInt(ts, 10) + s.Secret
	sum := sha1.Sum([]byte(payload))
	return UploadAuth{
		Signature: hex.EncodeToString(sum[:]),
		APIKey:    s.APIKey,
		CloudName: s.CloudName,
		Timestamp: ts,
	}, nil
}

// Asset is one blob to upload.
type Asset struct {
	Name string
	Data []byte
}

// Artifacts are the durable URLs of a completed design upload.
type Artifacts struct {
	PrintURL   string
	PreviewURL string
	AssetURLs  []string
}

// Client performs direct multipart uploads against the storage
// provider. It never holds persistent credentials; every upload is
// authorized by a fresh signature.
type Client struct {
	signer    Signer
	uploadURL string // format string receiving the cloud name
	client    *http.Client
}

func NewClient(signer Signer, uploadURL string) *Client {
	return &Client{
		signer:    signer,
		uploadURL: uploadURL,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Upload signs and uploads one blob, returning its durable URL.
func (c *Client) Upload(ctx context.Context, folder string, asset Asset) (string, error) {
	auth, err := c.signer.Sign(ctx, folder)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", asset.Name)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(asset.Data); err != nil {
		return "", err
	}
	_ = mw.WriteField("api_key", auth.APIKey)
	_ = mw.WriteField("timestamp", strconv.FormatInt(auth.Timestamp, 10))
	_ = mw.WriteField("signature", auth.Signature)
	_ = mw.WriteField("folder", folder)
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf(c.uploadURL, auth.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", asset.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload %s: status %d: %s", asset.Name, resp.StatusCode, msg)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload %s: response: %w", asset.Name, err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload %s: provider returned no url", asset.Name)
	}
	return out.SecureURL, nil
}

// UploadDesign uploads the artifact pair plus every original asset.
// Originals fan out in parallel; the print file and preview must both
// succeed. Any failure fails the whole save, because an order without
// a print file is unusable downstream.
func (c *Client) UploadDesign(ctx context.Context, printFile, preview Asset, originals []Asset) (Artifacts, error) {
	type result struct {
		idx int
		url string
		err error
	}
	results := make(chan result, len(originals))
	for i, a := range originals {
		go func(i int, a Asset) {
			url, err := c.Upload(ctx, FolderAssets, a)
			results <- result{idx: i, url: url, err: err}
		}(i, a)
	}

	printURL, printErr := c.Upload(ctx, FolderPrints, printFile)
	previewURL, previewErr := c.Upload(ctx, FolderPreviews, preview)

	assetURLs := make([]string, len(originals))
	var assetErr error
	for range originals {
		r := <-results
		if r.err != nil && assetErr == nil {
			assetErr = r.err
		}
		assetURLs[r.idx] = r.url
	}

	for _, err := range []error{printErr, previewErr, assetErr} {
		if err != nil {
			logrus.Errorf("design upload incomplete: %v", err)
			return Artifacts{}, fmt.Errorf("%w: %v", entity.ErrUploadIncomplete, err)
		}
	}
	return Artifacts{PrintURL: printURL, PreviewURL: previewURL, AssetURLs: assetURLs}, nil
}
