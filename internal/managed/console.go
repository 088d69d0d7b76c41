package managed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/instancestore/internal/metrics"
	"github.com/dropDatabas3/instancestore/internal/observability/logger"
)

// maxConsoleBody acota lo que se lee de una respuesta del console.
const maxConsoleBody = 4 << 20

// console firma y envía llamadas al console API. El token se calcula una vez
// por proceso y se reusa en todas las llamadas.
type console struct {
	http     *http.Client
	baseURL  string
	clientID string
	token    string
	log      *zap.Logger
}

// signPayload mezcla {client-id, access-token} en payload; las keys del
// payload ganan.
func (c *console) signPayload(payload map[string]any) map[string]any {
	out := map[string]any{
		"client-id":    c.clientID,
		"access-token": c.token,
	}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// call hace POST del payload firmado. Fallas de transporte y bodies que no
// son JSON se loguean y devuelven ok=false; el caller decide cómo escalar.
func (c *console) call(ctx context.Context, uri string, payload map[string]any) ([]byte, bool) {
	if !strings.HasPrefix(uri, "http") {
		uri = c.baseURL + strings.TrimLeft(uri, "/ ")
	}
	log := c.log.With(logger.URL(uri))

	start := time.Now()
	raw, err := c.post(ctx, uri, c.signPayload(payload))
	metrics.ConsoleLatency.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.ConsoleRequests.WithLabelValues("error").Inc()
		log.Warn("console api error", logger.Err(err))
		return nil, false
	}
	metrics.ConsoleRequests.WithLabelValues("ok").Inc()
	return raw, true
}

func (c *console) post(ctx context.Context, uri string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to contact API server: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxConsoleBody))
	if err != nil {
		return nil, fmt.Errorf("read console response: %w", err)
	}
	if !json.Valid(raw) {
		return nil, errors.New("invalid response received from console")
	}
	if resp.StatusCode >= 300 {
		// el body sigue siendo útil: el console responde success=false con 404
		c.log.Debug("console non-2xx response", logger.Status(resp.StatusCode))
	}
	return raw, nil
}
