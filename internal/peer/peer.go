// Package peer предоставляет HTTP-клиент для обращения к сервисам меша.
//
// Каждый вызов ограничен собственным таймаутом, а исход раскладывается по
// классам отказов, чтобы вызывающий код ветвился по ним, а не по типам ошибок.
package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Outcome описывает класс исхода одного обращения к сервису.
type Outcome int

const (
	// OutcomeOK — сервис ответил статусом 2xx, тело разобрано успешно.
	OutcomeOK Outcome = iota
	// OutcomeTimeout — сервис не уложился в таймаут вызова.
	OutcomeTimeout
	// OutcomeUnreachable — соединение не удалось установить.
	OutcomeUnreachable
	// OutcomeHTTPError — сервис ответил статусом вне диапазона 2xx.
	OutcomeHTTPError
	// OutcomeDecodeError — ответ 2xx, но тело не удалось разобрать.
	OutcomeDecodeError
)

const (
	// DefaultTimeout — таймаут вызовов за данными.
	DefaultTimeout = 10 * time.Second
	// HealthTimeout — таймаут проверок живости.
	HealthTimeout = 3 * time.Second
)

// Result описывает исход одного обращения к сервису.
type Result struct {
	Outcome    Outcome
	StatusCode int
	ErrorBody  string
	Err        error
}

// OK сообщает, завершился ли вызов успешно.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// Detail возвращает человекочитаемую причину неуспеха, пустую строку для OK.
func (r Result) Detail() string {
	switch r.Outcome {
	case OutcomeOK:
		return ""
	case OutcomeTimeout:
		return "timeout"
	case OutcomeUnreachable:
		return "unreachable"
	case OutcomeHTTPError:
		if r.ErrorBody != "" {
			return fmt.Sprintf("http %d: %s", r.StatusCode, r.ErrorBody)
		}
		return fmt.Sprintf("http %d", r.StatusCode)
	case OutcomeDecodeError:
		return "bad response body"
	}
	return "unknown"
}

// Client инкапсулирует HTTP-взаимодействие с одним сервисом меша.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для сервиса по указанному адресу.
// Неположительный таймаут заменяется на DefaultTimeout.
func NewClient(name, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		name:    name,
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name возвращает имя сервиса, к которому обращается клиент.
func (c *Client) Name() string {
	return c.name
}

// Call выполняет запрос к сервису. При ненулевом out тело успешного ответа
// декодируется в out. Вызов никогда не блокируется дольше таймаута клиента
// и не возвращает панику вызывающему: любой отказ попадает в Result.
func (c *Client) Call(ctx context.Context, method, path string, payload, out any) Result {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Result{Outcome: OutcomeDecodeError, Err: fmt.Errorf("marshal payload: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Result{Outcome: OutcomeUnreachable, Err: fmt.Errorf("create request: %w", err)}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return Result{
			Outcome:    OutcomeHTTPError,
			StatusCode: resp.StatusCode,
			ErrorBody:  readErrorBody(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Result{
				Outcome:    OutcomeDecodeError,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("decode response: %w", err),
			}
		}
	}

	return Result{Outcome: OutcomeOK, StatusCode: resp.StatusCode}
}

func classifyTransport(err error) Result {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Result{Outcome: OutcomeTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Result{Outcome: OutcomeTimeout, Err: err}
	}
	return Result{Outcome: OutcomeUnreachable, Err: err}
}

// Сервисы меша отдают ошибки в виде {"error": "..."}.
func readErrorBody(r io.Reader) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&e); err != nil {
		return ""
	}
	return e.Error
}
