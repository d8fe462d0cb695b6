package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tharindu-jay/policyscan/internal/extract"
	"github.com/tharindu-jay/policyscan/internal/record"
)

// ExtractDocument implements extract.DocumentExtractor. The PDF travels
// inline as base64; the response text is unfenced, repaired, schema-checked
// and decoded into the nested extraction.
func (c *Client) ExtractDocument(ctx context.Context, pdf []byte) (record.RawExtraction, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("gemini.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"pdf_bytes", len(pdf),
	)

	body := map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"text": BuildExtractionPrompt()},
				{"inline_data": map[string]any{
					"mime_type": "application/pdf",
					"data":      base64.StdEncoding.EncodeToString(pdf),
				}},
			},
		}},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model + ":generateContent"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("gemini.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.RawExtraction{}, err
	}

	text, err := candidateText(raw)
	if err != nil {
		c.logger.Error("gemini.extract.empty_response",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.RawExtraction{}, &extract.Error{Kind: extract.EmptyResponse, Raw: string(raw), Cause: err}
	}

	repaired := FixTrailingCommas(StripCodeFence(text))

	if err := ValidateJSONAgainstSchema(BuildExtractionSchema(), []byte(repaired)); err != nil {
		c.logger.Error("gemini.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.RawExtraction{}, &extract.Error{Kind: extract.MalformedResponse, Raw: text, Cause: err}
	}

	var out record.RawExtraction
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		c.logger.Error("gemini.extract.decode_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return record.RawExtraction{}, &extract.Error{Kind: extract.MalformedResponse, Raw: text, Cause: err}
	}

	c.logger.Info("gemini.extract.ok",
		"req_id", rid,
		"covers", len(out.Coverage),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, &extract.Error{Kind: extract.TransportFailure, Cause: fmt.Errorf("marshal request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, &extract.Error{Kind: extract.TransportFailure, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &extract.Error{Kind: extract.TransportFailure, Cause: err}
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("gemini.response_body_close_error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &extract.Error{
			Kind:  extract.RateLimited,
			Raw:   string(raw),
			Cause: fmt.Errorf("gemini status %d", resp.StatusCode),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &extract.Error{
			Kind:  extract.TransportFailure,
			Raw:   string(raw),
			Cause: fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(raw)),
		}
	}
	return raw, nil
}

// candidateText pulls the first candidate's text parts out of a
// generateContent response.
func candidateText(raw []byte) (string, error) {
	var gr struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}
	var b strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no usable text in gemini response")
	}
	return text, nil
}
